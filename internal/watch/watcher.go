package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/apimachinery/pkg/util/sets"
)

// RunFunc is called each time the watcher triggers a regeneration.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult summarizes one generation for the status line.
type RunResult struct {
	Path     string
	Sections int
	Warnings int
}

// Options configures the watch behaviour.
type Options struct {
	// Files are the input files whose changes trigger a regeneration.
	Files []string

	// Debounce is the quiet period before triggering a rebuild.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns the default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received. An initial generation runs
// before the first event.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	targets, err := resolveTargets(opts.Files)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files by rename, so the parent directories are
	// watched and events are filtered by target path.
	for _, dir := range sets.List(parentDirs(targets)) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %q: %w", dir, err)
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n",
		strings.Join(sets.List(targets), ", "), opts.Debounce)

	var mu sync.Mutex

	run := func(trigger string) {
		mu.Lock()
		defer mu.Unlock()

		if sigCtx.Err() != nil {
			return
		}

		doRun(sigCtx, opts, runFn, trigger)
	}

	run("(initial)")

	debouncer := NewDebouncer(opts.Debounce, opts.Logger, run)
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event) || !targets.Has(filepath.Clean(event.Name)) {
				continue
			}

			opts.Logger.Debug("input changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single generation and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d sections, %d warnings)\n",
		now, trigger, result.Sections, result.Warnings)

	if result.Path != "" {
		fmt.Fprintf(opts.Out, "  wrote %s\n", result.Path)
	}
}

// resolveTargets returns the cleaned absolute paths of files.
func resolveTargets(files []string) (sets.Set[string], error) {
	targets := sets.New[string]()

	for _, f := range files {
		if f == "" {
			continue
		}

		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", f, err)
		}

		targets.Insert(filepath.Clean(abs))
	}

	if targets.Len() == 0 {
		return nil, errors.New("no files to watch")
	}

	return targets, nil
}

func parentDirs(targets sets.Set[string]) sets.Set[string] {
	dirs := sets.New[string]()
	for t := range targets {
		dirs.Insert(filepath.Dir(t))
	}

	return dirs
}

// isRelevant filters out metadata-only events and editor scratch files.
func isRelevant(event fsnotify.Event) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	if strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".swp") || strings.HasPrefix(name, "#") {
		return false
	}

	return true
}
