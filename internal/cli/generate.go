package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/output"
)

type generateOptions struct {
	documentOptions

	dryRun bool
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Assemble, validate and write an SPDX document",
		Long: `Generate assembles every section of the document, validates it and
writes it into the output directory as <name>.spdx. A file already at the
target path is replaced. When a run fails the incomplete file is removed.

Exit codes:
  0  Document written
  2  Invalid arguments, configuration or tags file
  6  The document could not be written
  7  Validation failed (or warnings with --strict)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd, opts)
		},
	}

	registerDocumentFlags(cmd, &opts.documentOptions)
	registerOutputFlags(cmd)

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the document to stdout instead of writing it")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts *generateOptions) error {
	in, err := loadInputs(ctx, &opts.documentOptions)
	if err != nil {
		return err
	}

	g := newGenerator(ctx, in, &opts.documentOptions)

	if opts.dryRun {
		data, ok := g.Render()
		if !ok {
			return &ExitError{Code: exitValidation, Err: errors.New("document could not be rendered")}
		}

		return output.NewStdoutWriter(cmd.OutOrStdout()).Write(data)
	}

	cfg := config.FromContext(ctx)

	if !g.Generate(cfg.OutputDir) {
		return &ExitError{
			Code: stageExitCode(g.Stage()),
			Err:  fmt.Errorf("generation failed at stage %s", g.Stage()),
		}
	}

	if !cfg.Quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", g.Path())
	}

	return nil
}
