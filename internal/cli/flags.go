package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/document"
)

// documentOptions are the inputs shared by every command that assembles a
// document.
type documentOptions struct {
	tagsFile        string
	identity        document.Identity
	strict          bool
	uniqueNamespace bool
}

// registerDocumentFlags adds the tags file, identity and validation flags.
func registerDocumentFlags(cmd *cobra.Command, opts *documentOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.tagsFile, "tags-file", "t", "", "tags file (default: spdxtag.yaml, .yml, .toml or .json in the working directory)")

	f.StringVar(&opts.identity.Name, "name", "", "name of the described package")
	f.StringVar(&opts.identity.Version, "version", "", "version of the described package")
	f.StringVar(&opts.identity.License, "license", "", "declared license of the described package")
	f.StringVar(&opts.identity.Description, "description", "", "one-line summary of the described package")
	f.StringVar(&opts.identity.HomePage, "homepage", "", "home page of the described package")
	f.StringVar(&opts.identity.Supplier, "supplier", "", "supplier of the described package")

	f.BoolVar(&opts.strict, "strict", false, "fail on conformance warnings in addition to missing tags")
	f.BoolVar(&opts.uniqueNamespace, "unique-namespace", false, "append a random UUID to the derived document namespace")
	f.String("namespace-base", config.DefaultNamespaceBase, "URL prefix of derived document namespaces")
}

// registerOutputFlags adds the artifact location flags. Their values are
// read through the loaded configuration.
func registerOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("output-dir", config.DefaultOutputDir, "directory the document is written into")
	f.String("format", config.DefaultFormat, "output format")
}
