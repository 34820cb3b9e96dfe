package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/generator"
	"github.com/hupe1980/spdxtag/internal/logging"
	"github.com/hupe1980/spdxtag/internal/output"
)

// defaultTagsFiles are probed in the working directory, in order, when no
// tags file is given.
var defaultTagsFiles = []string{"spdxtag.yaml", "spdxtag.yml", "spdxtag.toml", "spdxtag.json"}

// resolveTagsFile returns the tags file to load. An explicit path must
// exist. Without one, the first default file present is used, or "" when
// there is none.
func resolveTagsFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", &ExitError{Code: exitUsage, Err: fmt.Errorf("tags file: %w", err)}
		}

		return path, nil
	}

	for _, candidate := range defaultTagsFiles {
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return "", &ExitError{Code: exitUsage, Err: fmt.Errorf("tags file: %w", err)}
		}
	}

	return "", nil
}

// loadTagsFile parses the tags file at path. An empty path yields a nil
// tree, which assembles every section from built-in values only.
func loadTagsFile(path string) (*config.Tree, error) {
	if path == "" {
		return nil, nil
	}

	tree, err := config.LoadTree(path)
	if err != nil {
		return nil, &ExitError{Code: exitUsage, Err: err}
	}

	return tree, nil
}

// documentInputs holds everything a generator is built from.
type documentInputs struct {
	tagsPath string
	tree     *config.Tree
	format   output.Format
}

// loadInputs resolves the output format and loads the tags file.
func loadInputs(ctx context.Context, opts *documentOptions) (*documentInputs, error) {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	f, err := output.DefaultRegistry().Format(cfg.Format)
	if err != nil {
		return nil, &ExitError{Code: exitUsage, Err: err}
	}

	path, err := resolveTagsFile(opts.tagsFile)
	if err != nil {
		return nil, err
	}

	tree, err := loadTagsFile(path)
	if err != nil {
		return nil, err
	}

	if path == "" {
		logger.Debug("no tags file, using built-in values only")
	} else {
		logger.Debug("tags file loaded", slog.String("path", path))
	}

	return &documentInputs{tagsPath: path, tree: tree, format: f}, nil
}

// newGenerator builds a generator for in and opts.
func newGenerator(ctx context.Context, in *documentInputs, opts *documentOptions) *generator.Generator {
	cfg := config.FromContext(ctx)

	return generator.New(
		generator.WithTree(in.tree),
		generator.WithIdentity(opts.identity),
		generator.WithFormat(in.format),
		generator.WithLogger(logging.FromContext(ctx)),
		generator.WithStrict(opts.strict),
		generator.WithNamespaceBase(cfg.NamespaceBase),
		generator.WithUniqueNamespace(opts.uniqueNamespace),
	)
}

// stageExitCode maps the stage a failed run stopped at to an exit code.
func stageExitCode(s generator.Stage) int {
	switch s {
	case generator.StageEnsureTarget, generator.StageSerialize:
		return exitWrite
	case generator.StageAssemble:
		return exitUsage
	case generator.StageValidate:
		return exitValidation
	default:
		return exitGeneric
	}
}
