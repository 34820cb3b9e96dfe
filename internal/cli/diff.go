package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/diff"
	"github.com/hupe1980/spdxtag/internal/spdx"
)

type diffOptions struct {
	documentOptions

	includeCreated bool
	exitCode       bool
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <existing-document>",
		Short: "Compare a freshly assembled document against an existing one",
		Long: `Diff assembles and validates the document in memory and prints a
unified diff against an existing document on disk. Nothing is written.

The Created timestamp changes on every run and is ignored unless
--include-created is given.

Exit codes:
  0  Success (or no differences with --exit-code)
  1  Differences found (with --exit-code)
  2  Invalid arguments
  7  The document could not be assembled or validated`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerDocumentFlags(cmd, &opts.documentOptions)
	cmd.Flags().String("format", config.DefaultFormat, "output format")

	f := cmd.Flags()
	f.BoolVar(&opts.includeCreated, "include-created", false, "compare the Created timestamp too")
	f.BoolVar(&opts.exitCode, "exit-code", false, "exit with code 1 when the documents differ")

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, existingPath string, opts *diffOptions) error {
	existing, err := os.ReadFile(existingPath) //nolint:gosec // user-specified document
	if err != nil {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("reading existing document: %w", err)}
	}

	in, err := loadInputs(ctx, &opts.documentOptions)
	if err != nil {
		return err
	}

	generated, ok := newGenerator(ctx, in, &opts.documentOptions).Render()
	if !ok {
		return &ExitError{Code: exitValidation, Err: errors.New("document could not be rendered")}
	}

	diffOpts := diff.DefaultOptions()
	diffOpts.OldLabel = existingPath
	diffOpts.Separator = in.format.Separator

	if !opts.includeCreated {
		diffOpts.Ignore = []string{spdx.TagCreated}
	}

	result, err := diff.Compute(string(existing), string(generated), diffOpts)
	if err != nil {
		return &ExitError{Code: exitGeneric, Err: err}
	}

	diff.Write(cmd.OutOrStdout(), result, !config.FromContext(ctx).NoColor)

	if opts.exitCode && result.HasDifferences {
		return &ExitError{Code: exitGeneric, Err: errors.New("documents differ")}
	}

	return nil
}
