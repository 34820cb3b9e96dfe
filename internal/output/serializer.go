package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/spdxtag/internal/tag"
)

// Encoder writes sections of a registry to w. Sections are separated by an
// empty line; sections without set tags produce no output.
type Encoder struct {
	w        io.Writer
	format   Format
	sections int
}

// NewEncoder returns an encoder writing f-formatted lines to w.
func NewEncoder(w io.Writer, f Format) *Encoder {
	return &Encoder{w: w, format: f}
}

// EncodeSection writes every set tag of section in declaration order, one
// line per value in assignment order. It returns the number of lines
// written. Write errors are returned unchanged in a wrapper naming the tag.
func (e *Encoder) EncodeSection(reg *tag.Registry, section string) (int, error) {
	lines := Lines(reg, section, e.format)
	if len(lines) == 0 {
		return 0, nil
	}

	if e.sections > 0 {
		if _, err := io.WriteString(e.w, e.format.Terminator); err != nil {
			return 0, fmt.Errorf("writing section %s: %w", section, err)
		}
	}

	e.sections++

	for _, l := range lines {
		if _, err := io.WriteString(e.w, l.Text); err != nil {
			return 0, fmt.Errorf("writing tag %s: %w", l.Tag, err)
		}
	}

	return len(lines), nil
}

// Line is one rendered tag value.
type Line struct {
	Tag  string
	Text string
}

// Lines renders the set tags of section without writing them.
func Lines(reg *tag.Registry, section string, f Format) []Line {
	var out []Line

	for _, t := range reg.InSection(section) {
		for _, v := range t.Values() {
			out = append(out, Line{
				Tag:  t.Name,
				Text: t.Key() + f.Separator + FormatValue(v) + f.Terminator,
			})
		}
	}

	return out
}

// FormatValue wraps values spanning several lines in <text> markers so that
// readers can tell continuation lines from tags.
func FormatValue(v string) string {
	if strings.ContainsAny(v, "\r\n") {
		return "<text>" + v + "</text>"
	}

	return v
}

// Serialize renders the given sections into memory.
func Serialize(reg *tag.Registry, sections []string, f Format) ([]byte, error) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf, f)

	for _, s := range sections {
		if _, err := enc.EncodeSection(reg, s); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
