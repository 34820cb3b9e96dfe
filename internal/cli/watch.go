package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/logging"
	"github.com/hupe1980/spdxtag/internal/watch"
)

type watchOptions struct {
	documentOptions

	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the document whenever the tags file changes",
		Long: `Watch generates the document once and then again every time the tags
file or the config file changes. File changes are debounced to avoid rapid
re-runs; runs never overlap. A failed run is reported and watching goes on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, opts)
		},
	}

	registerDocumentFlags(cmd, &opts.documentOptions)
	registerOutputFlags(cmd)

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *watchOptions) error {
	cfg := config.FromContext(ctx)

	in, err := loadInputs(ctx, &opts.documentOptions)
	if err != nil {
		return err
	}

	if in.tagsPath == "" {
		return &ExitError{Code: exitUsage, Err: errors.New("no tags file to watch: pass --tags-file or create spdxtag.yaml")}
	}

	runFn := func(_ context.Context) (*watch.RunResult, error) {
		tree, err := loadTagsFile(in.tagsPath)
		if err != nil {
			return nil, err
		}

		run := *in
		run.tree = tree

		g := newGenerator(ctx, &run, &opts.documentOptions)
		if !g.Generate(cfg.OutputDir) {
			return nil, fmt.Errorf("generation failed at stage %s", g.Stage())
		}

		warnings := 0
		for _, r := range g.Results() {
			warnings += len(r.Warnings())
		}

		return &watch.RunResult{
			Path:     g.Path(),
			Sections: len(g.Results()),
			Warnings: warnings,
		}, nil
	}

	watchOpts := watch.Options{
		Files:    []string{in.tagsPath, cfg.ConfigFile},
		Debounce: opts.debounce,
		Logger:   logging.FromContext(ctx),
		Out:      cmd.ErrOrStderr(),
	}

	return watch.Run(ctx, watchOpts, runFn)
}
