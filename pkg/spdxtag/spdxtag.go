// Package spdxtag provides a public Go API for generating SPDX tag-value
// documents.
//
// This package exposes the spdxtag generator as a library, allowing
// programmatic use without the CLI.
//
// Basic usage:
//
//	result, err := spdxtag.Render(ctx, spdxtag.WithName("libfoo"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(string(result.Document))
//
// With a tags file, written to disk:
//
//	result, err := spdxtag.Generate(ctx, "out",
//	    spdxtag.WithName("libfoo"),
//	    spdxtag.WithVersion("1.2.3"),
//	    spdxtag.WithTagsFile("spdxtag.yaml"),
//	)
package spdxtag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/document"
	"github.com/hupe1980/spdxtag/internal/generator"
	"github.com/hupe1980/spdxtag/internal/logging"
	"github.com/hupe1980/spdxtag/internal/validate"
)

var (
	// ErrAssembly is returned when a section cannot be assembled.
	ErrAssembly = errors.New("assembly failed")

	// ErrValidation is returned when required tags are not set, or when
	// strict mode is on and conformance warnings were found.
	ErrValidation = errors.New("validation failed")

	// ErrWrite is returned when the document cannot be written.
	ErrWrite = errors.New("writing document failed")
)

// Option configures document generation.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	identity document.Identity

	tagsFile   string
	tagsData   []byte
	tagsFormat string

	logger          *slog.Logger
	strict          bool
	namespaceBase   string
	uniqueNamespace bool
	now             func() time.Time
}

// --- Identity ---

// WithName sets the name of the described package. Without a name the
// document lacks DocumentName and DocumentNamespace unless the tags
// supply them.
func WithName(name string) Option { return func(o *options) { o.identity.Name = name } }

// WithVersion sets the version of the described package.
func WithVersion(v string) Option { return func(o *options) { o.identity.Version = v } }

// WithLicense sets the declared license of the described package.
func WithLicense(l string) Option { return func(o *options) { o.identity.License = l } }

// WithDescription sets the one-line summary of the described package.
func WithDescription(d string) Option { return func(o *options) { o.identity.Description = d } }

// WithHomePage sets the home page of the described package.
func WithHomePage(u string) Option { return func(o *options) { o.identity.HomePage = u } }

// WithSupplier sets the supplier of the described package.
func WithSupplier(s string) Option { return func(o *options) { o.identity.Supplier = s } }

// --- Tags ---

// WithTagsFile reads tag overrides from a .yaml, .yml, .toml or .json file.
func WithTagsFile(path string) Option { return func(o *options) { o.tagsFile = path } }

// WithTags parses tag overrides from data. format is "yaml", "toml" or
// "json".
func WithTags(data []byte, format string) Option {
	return func(o *options) {
		o.tagsData = data
		o.tagsFormat = format
	}
}

// --- Behaviour ---

// WithLogger sets the logger receiving diagnostics. By default they are
// discarded.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithStrict fails on conformance warnings in addition to missing tags.
func WithStrict() Option { return func(o *options) { o.strict = true } }

// WithNamespaceBase sets the URL prefix of the derived document namespace.
func WithNamespaceBase(base string) Option { return func(o *options) { o.namespaceBase = base } }

// WithUniqueNamespace appends a random UUID to the derived namespace.
func WithUniqueNamespace() Option { return func(o *options) { o.uniqueNamespace = true } }

// WithClock sets the source of the Created timestamp.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// Finding is one validation issue.
type Finding struct {
	Severity string
	Section  string
	Tag      string
	Message  string
}

// Result holds the output of a successful run.
type Result struct {
	// Document is the serialized document. Set by Render.
	Document []byte

	// Path is the written artifact. Set by Generate.
	Path string

	// Warnings are the soft conformance issues found during validation.
	Warnings []Finding
}

// Render assembles and validates a document and returns it in memory.
func Render(ctx context.Context, opts ...Option) (*Result, error) {
	g, err := newGenerator(ctx, opts)
	if err != nil {
		return nil, err
	}

	data, ok := g.Render()
	if !ok {
		if g.Results() == nil {
			return nil, ErrAssembly
		}

		return nil, validationError(g.Results())
	}

	return &Result{Document: data, Warnings: warnings(g.Results())}, nil
}

// Generate assembles, validates and writes a document into dir. A file
// already at the target path is replaced; on failure no file is left.
func Generate(ctx context.Context, dir string, opts ...Option) (*Result, error) {
	if dir == "" {
		return nil, errors.New("output directory must not be empty")
	}

	g, err := newGenerator(ctx, opts)
	if err != nil {
		return nil, err
	}

	if !g.Generate(dir) {
		switch g.Stage() {
		case generator.StageAssemble:
			return nil, ErrAssembly
		case generator.StageValidate:
			return nil, validationError(g.Results())
		default:
			return nil, fmt.Errorf("%w: stage %s", ErrWrite, g.Stage())
		}
	}

	return &Result{Path: g.Path(), Warnings: warnings(g.Results())}, nil
}

func newGenerator(ctx context.Context, opts []Option) (*generator.Generator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := &options{
		identity:      document.Identity{Name: document.UnsetName},
		logger:        logging.Discard(),
		namespaceBase: config.DefaultNamespaceBase,
	}

	for _, opt := range opts {
		opt(o)
	}

	tree, err := o.tree()
	if err != nil {
		return nil, err
	}

	gopts := []generator.Option{
		generator.WithTree(tree),
		generator.WithIdentity(o.identity),
		generator.WithLogger(o.logger),
		generator.WithStrict(o.strict),
		generator.WithNamespaceBase(o.namespaceBase),
		generator.WithUniqueNamespace(o.uniqueNamespace),
	}

	if o.now != nil {
		now := o.now
		gopts = append(gopts, generator.WithClock(func() utc.Time { return utc.New(now()) }))
	}

	return generator.New(gopts...), nil
}

func (o *options) tree() (*config.Tree, error) {
	if o.tagsFile != "" {
		return config.LoadTree(o.tagsFile)
	}

	if o.tagsData == nil {
		return nil, nil
	}

	switch strings.ToLower(o.tagsFormat) {
	case "yaml", "yml":
		return config.ParseYAML(o.tagsData)
	case "toml":
		return config.ParseTOML(o.tagsData)
	case "json":
		return config.ParseJSON(o.tagsData)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedFormat, o.tagsFormat)
	}
}

func validationError(results []*validate.Result) error {
	var missing []string

	for _, r := range results {
		for _, name := range r.Missing {
			missing = append(missing, r.Section+"/"+name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: required tags not set: %s", ErrValidation, strings.Join(missing, ", "))
	}

	return fmt.Errorf("%w: %d conformance warning(s) in strict mode", ErrValidation, len(warnings(results)))
}

func warnings(results []*validate.Result) []Finding {
	var out []Finding

	for _, r := range results {
		for _, w := range r.Warnings() {
			out = append(out, Finding{
				Severity: w.Severity.String(),
				Section:  w.Section,
				Tag:      w.Tag,
				Message:  w.Message,
			})
		}
	}

	return out
}
