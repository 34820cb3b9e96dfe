package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/spdxtag/internal/tag"
)

type inspectOptions struct {
	documentOptions

	section string
	output  string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the assembled tags without validating or writing",
		Long: `Inspect assembles the document and prints every tag with its flags and
current values, in document order. Use it to see which tags the tags file
may override and which values the built-in rules derive.

Flags column: R required, O overridable, M multi-valued.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}

	registerDocumentFlags(cmd, &opts.documentOptions)

	f := cmd.Flags()
	f.StringVar(&opts.section, "section", "", "show only this section")
	f.StringVarP(&opts.output, "output", "o", "table", "output format: table, json, yaml")

	return cmd
}

// tagInfo is the structured view of one tag.
type tagInfo struct {
	Section     string   `json:"section"`
	Name        string   `json:"name"`
	Label       string   `json:"label,omitempty"`
	Required    bool     `json:"required"`
	Overridable bool     `json:"overridable"`
	Multi       bool     `json:"multi"`
	Values      []string `json:"values,omitempty"`
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts *inspectOptions) error {
	switch opts.output {
	case "table", "json", "yaml":
	default:
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("unknown output %q: expected table, json, yaml", opts.output)}
	}

	in, err := loadInputs(ctx, &opts.documentOptions)
	if err != nil {
		return err
	}

	g := newGenerator(ctx, in, &opts.documentOptions)

	if !g.Build() {
		return &ExitError{Code: exitUsage, Err: errors.New("assembly failed")}
	}

	reg := g.Registry()

	tags := reg.Tags()
	if opts.section != "" {
		if !slices.Contains(reg.Sections(), opts.section) {
			return &ExitError{Code: exitUsage, Err: fmt.Errorf("unknown section %q (available: %s)",
				opts.section, strings.Join(reg.Sections(), ", "))}
		}

		tags = reg.InSection(opts.section)
	}

	infos := make([]tagInfo, 0, len(tags))
	for _, t := range tags {
		infos = append(infos, newTagInfo(t))
	}

	w := cmd.OutOrStdout()

	switch opts.output {
	case "json":
		return renderJSON(w, infos)
	case "yaml":
		return renderYAML(w, infos)
	default:
		return renderTable(w, infos)
	}
}

func newTagInfo(t *tag.Tag) tagInfo {
	info := tagInfo{
		Section:     t.Section,
		Name:        t.Name,
		Required:    t.Required,
		Overridable: t.Overridable,
		Multi:       t.Multi,
		Values:      t.Values(),
	}

	if t.Key() != t.Name {
		info.Label = t.Key()
	}

	return info
}

func renderJSON(w io.Writer, infos []tagInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(infos)
}

func renderYAML(w io.Writer, infos []tagInfo) error {
	data, err := sigsyaml.Marshal(infos)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func renderTable(w io.Writer, infos []tagInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "SECTION\tTAG\tFLAGS\tVALUE")

	for _, info := range infos {
		name := info.Name
		if info.Label != "" {
			name += " (" + info.Label + ")"
		}

		values := info.Values
		if len(values) == 0 {
			values = []string{"-"}
		}

		for i, v := range values {
			if i == 0 {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Section, name, flags(info), v)
				continue
			}

			_, _ = fmt.Fprintf(tw, "\t\t\t%s\n", v)
		}
	}

	return tw.Flush()
}

func flags(info tagInfo) string {
	var sb strings.Builder

	for _, f := range []struct {
		set bool
		c   byte
	}{{info.Required, 'R'}, {info.Overridable, 'O'}, {info.Multi, 'M'}} {
		if f.set {
			sb.WriteByte(f.c)
		} else {
			sb.WriteByte('-')
		}
	}

	return sb.String()
}
