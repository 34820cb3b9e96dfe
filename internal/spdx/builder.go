package spdx

import (
	"github.com/hupe1980/spdxtag/internal/tag"
)

// Builder returns the canonical SPDX tag definitions, all unset, in the
// order they are written.
func Builder() []tag.Tag {
	defs := []tag.Tag{
		{Name: TagSPDXVersion, Section: SectionCreation},
		{Name: TagDataLicense, Section: SectionCreation},
		{Name: TagSPDXID, Section: SectionCreation, Overridable: true},
		{Name: TagDocumentName, Section: SectionCreation, Overridable: true},
		{Name: TagDocumentNamespace, Section: SectionCreation, Overridable: true},
		{Name: TagExternalDocumentRef, Section: SectionCreation, Multi: true, Overridable: true},
		{Name: TagLicenseListVersion, Section: SectionCreation, Overridable: true},
		{Name: TagCreator, Section: SectionCreation, Multi: true, Overridable: true},
		{Name: TagCreated, Section: SectionCreation, Overridable: true},
		{Name: TagCreatorComment, Section: SectionCreation, Overridable: true},
		{Name: TagDocumentComment, Section: SectionCreation, Overridable: true},

		{Name: TagPackageName, Section: SectionPackage},
		{Name: TagPackageSPDXID, Label: TagSPDXID, Section: SectionPackage},
		{Name: TagPackageVersion, Section: SectionPackage, Overridable: true},
		{Name: TagPackageFileName, Section: SectionPackage, Overridable: true},
		{Name: TagPackageSupplier, Section: SectionPackage, Overridable: true},
		{Name: TagPackageOriginator, Section: SectionPackage, Overridable: true},
		{Name: TagPackageDownloadLocation, Section: SectionPackage, Overridable: true},
		{Name: TagFilesAnalyzed, Section: SectionPackage},
		{Name: TagPackageHomePage, Section: SectionPackage, Overridable: true},
		{Name: TagPackageLicenseConcluded, Section: SectionPackage, Overridable: true},
		{Name: TagPackageLicenseDeclared, Section: SectionPackage, Overridable: true},
		{Name: TagPackageLicenseComments, Section: SectionPackage, Overridable: true},
		{Name: TagPackageCopyrightText, Section: SectionPackage, Overridable: true},
		{Name: TagPackageSummary, Section: SectionPackage, Overridable: true},
		{Name: TagPackageDescription, Section: SectionPackage, Overridable: true},
		{Name: TagPackageComment, Section: SectionPackage, Overridable: true},
		{Name: TagExternalRef, Section: SectionPackage, Multi: true, Overridable: true},
		{Name: TagPrimaryPackagePurpose, Section: SectionPackage, Overridable: true},

		{Name: TagRelationship, Section: SectionRelationships, Multi: true, Overridable: true},
	}

	for _, p := range []struct {
		section string
		policy  tag.Policy
	}{
		{SectionCreation, creationPolicy},
		{SectionPackage, packagePolicy},
		{SectionRelationships, relationshipPolicy},
	} {
		markRequired(defs, p.section, p.policy.Required)
	}

	return defs
}

func markRequired(defs []tag.Tag, section string, names []string) {
	for i := range defs {
		if defs[i].Section != section {
			continue
		}

		for _, n := range names {
			if defs[i].Name == n {
				defs[i].Required = true
			}
		}
	}
}
