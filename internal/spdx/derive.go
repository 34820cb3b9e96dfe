package spdx

import (
	"regexp"
	"strings"

	"github.com/hupe1980/spdxtag/internal/document"
	"github.com/hupe1980/spdxtag/internal/tag"
)

// CreatedLayout is the SPDX timestamp layout.
const CreatedLayout = "2006-01-02T15:04:05Z"

func deriveCreation(reg *tag.Registry, env document.Env) {
	reg.MustGet(TagSPDXVersion).Set(Version)
	reg.MustGet(TagDataLicense).Set(DataLicense)
	reg.MustGet(TagSPDXID).Set(DocumentID)
	reg.MustGet(TagCreated).Set(env.Clock().UTC().Format(CreatedLayout))

	if env.Tool != "" {
		reg.MustGet(TagCreator).Set("Tool: " + env.Tool)
	}

	if !env.Identity.HasName() {
		return
	}

	name := strings.TrimSpace(env.Identity.Name)

	reg.MustGet(TagDocumentName).Set(name)
	reg.MustGet(TagDocumentNamespace).Set(Namespace(env.NamespaceBase, name, env.NamespaceSuffix))
}

func derivePackage(reg *tag.Registry, env document.Env) {
	id := env.Identity

	reg.MustGet(TagFilesAnalyzed).Set("false")
	reg.MustGet(TagPackageDownloadLocation).Set(NoAssertion)
	reg.MustGet(TagPackageLicenseConcluded).Set(NoAssertion)
	reg.MustGet(TagPackageCopyrightText).Set(NoAssertion)
	reg.MustGet(TagPackageLicenseDeclared).Set(orNoAssertion(id.License))

	if id.Version != "" {
		reg.MustGet(TagPackageVersion).Set(id.Version)
	}

	if id.Supplier != "" {
		reg.MustGet(TagPackageSupplier).Set(id.Supplier)
	}

	if id.HomePage != "" {
		reg.MustGet(TagPackageHomePage).Set(id.HomePage)
	}

	if id.Description != "" {
		reg.MustGet(TagPackageSummary).Set(id.Description)
	}

	if !id.HasName() {
		return
	}

	name := strings.TrimSpace(id.Name)

	reg.MustGet(TagPackageName).Set(name)
	reg.MustGet(TagPackageSPDXID).Set(PackageID(name))
}

func deriveRelationships(reg *tag.Registry, env document.Env) {
	if !env.Identity.HasName() {
		return
	}

	pkg := PackageID(strings.TrimSpace(env.Identity.Name))
	reg.MustGet(TagRelationship).Set(DocumentID + " DESCRIBES " + pkg)
}

// Namespace derives a document namespace from a base URL and package name.
func Namespace(base, name, suffix string) string {
	ns := base + name
	if suffix != "" {
		ns += "-" + suffix
	}

	return ns
}

var idUnsafe = regexp.MustCompile(`[^A-Za-z0-9.\-]+`)

// PackageID derives the SPDX identifier of a package. Characters SPDX does
// not allow in identifiers become dashes.
func PackageID(name string) string {
	return "SPDXRef-Package-" + idUnsafe.ReplaceAllString(name, "-")
}

func orNoAssertion(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoAssertion
	}

	return s
}
