// Package spdx defines the SPDX 2.3 tag-value document type: its canonical
// tags, the section table and the rules that derive built-in values.
package spdx

import (
	"github.com/hupe1980/spdxtag/internal/document"
	"github.com/hupe1980/spdxtag/internal/tag"
	"github.com/hupe1980/spdxtag/internal/validate"
)

// Format is the configuration sub-tree holding SPDX overrides.
const Format = "spdx"

// Version is the SPDX version documents are written for.
const Version = "SPDX-2.3"

// DataLicense is the only license SPDX allows for document metadata.
const DataLicense = "CC0-1.0"

// DocumentID is the SPDX identifier of the document itself.
const DocumentID = "SPDXRef-DOCUMENT"

// NoAssertion marks values the generator cannot determine.
const NoAssertion = "NOASSERTION"

// Section names, also used as configuration keys.
const (
	SectionCreation      = "document-creation"
	SectionPackage       = "package"
	SectionRelationships = "relationships"
)

// Document creation tags.
const (
	TagSPDXVersion         = "SPDXVersion"
	TagDataLicense         = "DataLicense"
	TagSPDXID              = "SPDXID"
	TagDocumentName        = "DocumentName"
	TagDocumentNamespace   = "DocumentNamespace"
	TagExternalDocumentRef = "ExternalDocumentRef"
	TagLicenseListVersion  = "LicenseListVersion"
	TagCreator             = "Creator"
	TagCreated             = "Created"
	TagCreatorComment      = "CreatorComment"
	TagDocumentComment     = "DocumentComment"
)

// Package tags.
const (
	TagPackageName             = "PackageName"
	TagPackageSPDXID           = "PackageSPDXID"
	TagPackageVersion          = "PackageVersion"
	TagPackageFileName         = "PackageFileName"
	TagPackageSupplier         = "PackageSupplier"
	TagPackageOriginator       = "PackageOriginator"
	TagPackageDownloadLocation = "PackageDownloadLocation"
	TagFilesAnalyzed           = "FilesAnalyzed"
	TagPackageHomePage         = "PackageHomePage"
	TagPackageLicenseConcluded = "PackageLicenseConcluded"
	TagPackageLicenseDeclared  = "PackageLicenseDeclared"
	TagPackageLicenseComments  = "PackageLicenseComments"
	TagPackageCopyrightText    = "PackageCopyrightText"
	TagPackageSummary          = "PackageSummary"
	TagPackageDescription      = "PackageDescription"
	TagPackageComment          = "PackageComment"
	TagExternalRef             = "ExternalRef"
	TagPrimaryPackagePurpose   = "PrimaryPackagePurpose"
)

// Relationship tags.
const (
	TagRelationship = "Relationship"
)

// Type returns the SPDX document type.
func Type() document.Type {
	return document.Type{
		Format:   Format,
		Builder:  Builder,
		Sections: Sections(),
	}
}

// Sections returns the SPDX section table in document order.
func Sections() []document.Section {
	return []document.Section{
		{
			Name:   SectionCreation,
			Title:  "Document Creation Information",
			Policy: creationPolicy,
			Derive: deriveCreation,
			Checks: []validate.Check{
				validate.Arity(SectionCreation),
				validate.Matches(TagSPDXVersion, versionPattern, "an SPDX version (SPDX-M.N)"),
				validate.Matches(TagSPDXID, idPattern, "an SPDX identifier (SPDXRef-...)"),
				validate.EachValue(TagDocumentNamespace, checkNamespace),
				validate.Fields(TagExternalDocumentRef, 3),
				validate.EachValue(TagCreator, checkCreator),
				validate.Matches(TagCreated, createdPattern, "a UTC timestamp (YYYY-MM-DDThh:mm:ssZ)"),
			},
		},
		{
			Name:   SectionPackage,
			Title:  "Package Information",
			Policy: packagePolicy,
			Derive: derivePackage,
			Checks: []validate.Check{
				validate.Arity(SectionPackage),
				validate.Matches(TagPackageSPDXID, idPattern, "an SPDX identifier (SPDXRef-...)"),
				validate.EachValue(TagPackageVersion, checkPackageVersion),
				validate.EachValue(TagFilesAnalyzed, checkBool),
				validate.Fields(TagExternalRef, 3),
			},
		},
		{
			Name:   SectionRelationships,
			Title:  "Relationships",
			Policy: relationshipPolicy,
			Derive: deriveRelationships,
			Checks: []validate.Check{
				validate.Fields(TagRelationship, 3),
			},
		},
	}
}

var creationPolicy = tag.Policy{
	Required: []string{
		TagSPDXVersion,
		TagDataLicense,
		TagSPDXID,
		TagDocumentName,
		TagDocumentNamespace,
		TagCreator,
		TagCreated,
	},
}

var packagePolicy = tag.Policy{
	Required: []string{
		TagPackageName,
		TagPackageSPDXID,
		TagPackageDownloadLocation,
		TagFilesAnalyzed,
		TagPackageLicenseConcluded,
		TagPackageLicenseDeclared,
		TagPackageCopyrightText,
	},
}

var relationshipPolicy = tag.Policy{
	Required: []string{TagRelationship},
}
