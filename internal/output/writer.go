package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer is the interface for whole-document output destinations.
type Writer interface {
	// Write sends serialized bytes to the output destination.
	Write(data []byte) error
}

// StdoutWriter writes serialized documents to os.Stdout.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a writer that sends output to the given writer.
// If w is nil, os.Stdout is used.
func NewStdoutWriter(w io.Writer) *StdoutWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StdoutWriter{out: w}
}

// Write sends data to stdout.
func (sw *StdoutWriter) Write(data []byte) error {
	_, err := sw.out.Write(data)
	if err != nil {
		return fmt.Errorf("writing to stdout: %w", err)
	}

	return nil
}

// ErrNotOpen is returned when writing to an artifact that was not ensured
// or is already closed.
var ErrNotOpen = errors.New("artifact is not open")

// Artifact is the file a document is written to. Its lifecycle is
// Ensure, any number of Write calls, then Close or Abort.
type Artifact struct {
	path   string
	perm   os.FileMode
	logger *slog.Logger
	remove func(name string) error

	f   *os.File
	buf *bufio.Writer
}

// ArtifactOption configures an Artifact.
type ArtifactOption func(*Artifact)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) ArtifactOption {
	return func(a *Artifact) {
		a.perm = perm
	}
}

// WithLogger sets a logger for the Artifact.
func WithLogger(logger *slog.Logger) ArtifactOption {
	return func(a *Artifact) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewArtifact creates an artifact for the given file path. Nothing touches
// the filesystem before Ensure.
func NewArtifact(path string, opts ...ArtifactOption) *Artifact {
	a := &Artifact{
		path:   path,
		perm:   0o644,
		logger: slog.Default(),
		remove: os.Remove,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Path returns the artifact file path.
func (a *Artifact) Path() string {
	return a.path
}

// Ensure deletes any file already at the path, creates missing parent
// directories, and opens a fresh, empty file. Content is never appended to a
// stale file.
func (a *Artifact) Ensure() error {
	info, err := os.Lstat(a.path)

	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("removing stale artifact %s: is a directory", a.path)
	case err == nil:
		a.logger.Debug("removing stale artifact", slog.String("path", a.path))

		if rmErr := a.remove(a.path); rmErr != nil {
			return fmt.Errorf("removing stale artifact %s: %w", a.path, rmErr)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("inspecting artifact %s: %w", a.path, err)
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, a.perm) //nolint:gosec // caller-chosen output path
	if err != nil {
		return fmt.Errorf("creating artifact %s: %w", a.path, err)
	}

	a.f = f
	a.buf = bufio.NewWriter(f)

	return nil
}

// Write appends p to the artifact.
func (a *Artifact) Write(p []byte) (int, error) {
	if a.buf == nil {
		return 0, fmt.Errorf("writing %s: %w", a.path, ErrNotOpen)
	}

	n, err := a.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing %s: %w", a.path, err)
	}

	return n, nil
}

// Flush pushes buffered content to the file and checks that the file is
// still present at its path.
func (a *Artifact) Flush() error {
	if a.buf == nil {
		return fmt.Errorf("flushing %s: %w", a.path, ErrNotOpen)
	}

	if err := a.buf.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", a.path, err)
	}

	if _, err := os.Stat(a.path); err != nil {
		return fmt.Errorf("artifact %s disappeared: %w", a.path, err)
	}

	return nil
}

// Close flushes and closes the artifact.
func (a *Artifact) Close() error {
	if a.f == nil {
		return fmt.Errorf("closing %s: %w", a.path, ErrNotOpen)
	}

	flushErr := a.Flush()
	closeErr := a.f.Close()

	a.f, a.buf = nil, nil

	if flushErr != nil {
		return flushErr
	}

	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", a.path, closeErr)
	}

	return nil
}

// Abort closes the artifact and removes the partially written file.
func (a *Artifact) Abort() {
	if a.f != nil {
		_ = a.f.Close()
		a.f, a.buf = nil, nil
	}

	if err := os.Remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.logger.Warn("could not remove incomplete artifact",
			slog.String("path", a.path),
			slog.String("error", err.Error()),
		)
	}
}
