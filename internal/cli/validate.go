package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/validate"
)

func newValidateCommand() *cobra.Command {
	opts := &documentOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Assemble and validate a document without writing it",
		Long: `Validate assembles the document exactly as generate would and reports
missing required tags and conformance warnings, section by section.
Validation stops at the first invalid section.

Returns exit code 7 on validation failure (or on warnings with --strict).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}

	registerDocumentFlags(cmd, opts)
	cmd.Flags().String("format", config.DefaultFormat, "output format")

	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts *documentOptions) error {
	in, err := loadInputs(ctx, opts)
	if err != nil {
		return err
	}

	g := newGenerator(ctx, in, opts)

	if !g.Build() {
		return &ExitError{Code: exitUsage, Err: errors.New("assembly failed")}
	}

	ok := g.Validate()

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), validate.FormatResult(g.Results()...))

	if !ok {
		missing := 0
		for _, r := range g.Results() {
			missing += len(r.Missing)
		}

		if missing > 0 {
			return &ExitError{Code: exitValidation, Err: fmt.Errorf("validation failed: %d required tag(s) not set", missing)}
		}

		return &ExitError{Code: exitValidation, Err: errors.New("validation failed with warnings (strict mode)")}
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation passed.")

	return nil
}
