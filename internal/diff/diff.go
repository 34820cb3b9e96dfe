// Package diff compares two tag-value documents line by line.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Result holds the result of a unified diff computation.
type Result struct {
	Unified        string
	HasDifferences bool
	Hunks          []string
	OldLabel       string
	NewLabel       string
}

// Options configures diff computation.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int

	// Ignore lists tag tokens whose lines are dropped from both documents
	// before comparing.
	Ignore []string

	// Separator splits the tag token from its value.
	Separator string
}

// DefaultOptions returns the default diff options.
func DefaultOptions() Options {
	return Options{
		OldLabel:  "existing",
		NewLabel:  "generated",
		Context:   3,
		Separator: ": ",
	}
}

// Compute computes a unified diff between two documents.
func Compute(oldDoc, newDoc string, opts Options) (*Result, error) {
	oldDoc = Strip(oldDoc, opts.Separator, opts.Ignore...)
	newDoc = Strip(newDoc, opts.Separator, opts.Ignore...)

	d := difflib.UnifiedDiff{
		A:        splitLines(oldDoc),
		B:        splitLines(newDoc),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	hasDiff := unified != ""

	var hunks []string
	if hasDiff {
		hunks = extractHunks(unified)
	}

	return &Result{
		Unified:        unified,
		HasDifferences: hasDiff,
		Hunks:          hunks,
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
	}, nil
}

// Strip removes every line whose tag token is one of tags.
func Strip(doc, sep string, tags ...string) string {
	if len(tags) == 0 || doc == "" {
		return doc
	}

	if sep == "" {
		sep = ": "
	}

	lines := strings.SplitAfter(doc, "\n")
	kept := lines[:0]

	for _, line := range lines {
		if hasTag(line, sep, tags) {
			continue
		}

		kept = append(kept, line)
	}

	return strings.Join(kept, "")
}

func hasTag(line, sep string, tags []string) bool {
	token, _, ok := strings.Cut(line, sep)
	if !ok {
		return false
	}

	for _, t := range tags {
		if token == t {
			return true
		}
	}

	return false
}

// extractHunks splits unified diff output into its "@@" hunks. The file
// header is not part of any hunk.
func extractHunks(unified string) []string {
	var hunks []string

	var current strings.Builder

	inHunk := false

	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		if strings.HasPrefix(line, "@@") {
			if inHunk {
				hunks = append(hunks, current.String())
				current.Reset()
			}

			inHunk = true
		}

		if !inHunk {
			continue
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	if inHunk {
		hunks = append(hunks, current.String())
	}

	return hunks
}

// Write writes a formatted diff to w with optional ANSI colors.
func Write(w io.Writer, result *Result, color bool) {
	if !result.HasDifferences {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(result.Unified, "\n"), "\n") {
		if color {
			writeColorLine(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

func writeColorLine(w io.Writer, line string) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", bold, line, reset)
	case strings.HasPrefix(line, "@@"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", cyan, line, reset)
	case strings.HasPrefix(line, "-"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", red, line, reset)
	case strings.HasPrefix(line, "+"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", green, line, reset)
	default:
		_, _ = fmt.Fprintln(w, line)
	}
}

// splitLines keeps the trailing newline of every element for difflib.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}

	return strings.SplitAfter(s, "\n")
}
