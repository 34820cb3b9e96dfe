// Package generator sequences document assembly, validation and
// serialization for one document.
//
// A Generator is single-use per run and not safe for concurrent use: its
// registry and artifact are exclusively owned by the run. Generate several
// documents concurrently by giving each its own Generator and target.
//
// Every public operation reports a boolean; details go to the logger.
// Configuration anomalies and soft conformance issues are warnings.
// Missing required tags, missing required configuration sections and
// artifact I/O errors fail the run.
package generator

import (
	"log/slog"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/hupe1980/spdxtag/internal/assemble"
	"github.com/hupe1980/spdxtag/internal/config"
	"github.com/hupe1980/spdxtag/internal/document"
	"github.com/hupe1980/spdxtag/internal/logging"
	"github.com/hupe1980/spdxtag/internal/output"
	"github.com/hupe1980/spdxtag/internal/spdx"
	"github.com/hupe1980/spdxtag/internal/tag"
	"github.com/hupe1980/spdxtag/internal/validate"
	"github.com/hupe1980/spdxtag/internal/version"
)

// Generator builds, validates and writes one document.
type Generator struct {
	doc    document.Type
	format output.Format
	tree   *config.Tree
	env    document.Env
	logger *slog.Logger

	strict          bool
	uniqueNamespace bool

	reg     *tag.Registry
	results []*validate.Result
	path    string
	stage   Stage
	failed  bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithTree sets the configuration tree. The tree is only read.
func WithTree(tree *config.Tree) Option {
	return func(g *Generator) { g.tree = tree }
}

// WithIdentity sets the package the document describes.
func WithIdentity(id document.Identity) Option {
	return func(g *Generator) { g.env.Identity = id }
}

// WithLogger sets the logger receiving all diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithType replaces the document type (builder and section table).
func WithType(doc document.Type) Option {
	return func(g *Generator) { g.doc = doc }
}

// WithFormat sets the line format of the artifact.
func WithFormat(f output.Format) Option {
	return func(g *Generator) { g.format = f }
}

// WithStrict turns soft conformance warnings into validation failures.
func WithStrict(strict bool) Option {
	return func(g *Generator) { g.strict = strict }
}

// WithClock sets the source of the creation time.
func WithClock(now func() utc.Time) Option {
	return func(g *Generator) { g.env.Now = now }
}

// WithNamespaceBase sets the URL prefix of derived document namespaces.
func WithNamespaceBase(base string) Option {
	return func(g *Generator) { g.env.NamespaceBase = base }
}

// WithUniqueNamespace appends a random UUID to derived namespaces.
func WithUniqueNamespace(unique bool) Option {
	return func(g *Generator) { g.uniqueNamespace = unique }
}

// WithTool sets the generator identifier used for the default Creator.
func WithTool(tool string) Option {
	return func(g *Generator) { g.env.Tool = tool }
}

// New returns a generator for SPDX tag-value documents unless options say
// otherwise.
func New(opts ...Option) *Generator {
	g := &Generator{
		doc:    spdx.Type(),
		format: output.SPDX,
		env: document.Env{
			Identity:      document.Identity{Name: document.UnsetName},
			Tool:          version.Tool(),
			NamespaceBase: config.DefaultNamespaceBase,
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	g.logger = logging.OrDefault(g.logger)

	return g
}

// Registry returns the registry of the last Build, or nil.
func (g *Generator) Registry() *tag.Registry { return g.reg }

// Results returns the validation results of the last Validate.
func (g *Generator) Results() []*validate.Result { return g.results }

// Path returns the artifact path recorded by a successful Generate.
func (g *Generator) Path() string { return g.path }

// Stage returns the stage the last Generate reached.
func (g *Generator) Stage() Stage { return g.stage }

// Failed reports whether the last Generate stopped before StageDone.
func (g *Generator) Failed() bool { return g.failed }

// Build creates a fresh registry and assembles every section in order. It
// stops at the first section that fails.
func (g *Generator) Build() bool {
	g.reg = g.doc.NewRegistry()
	g.results = nil

	env := g.env
	if g.uniqueNamespace {
		env.NamespaceSuffix = uuid.NewString()
	}

	for _, sec := range g.doc.Sections {
		g.logger.Debug("assembling section", slog.String("section", sec.Name))

		if !assemble.Section(g.reg, sec, env, g.tree, g.doc.Format, g.logger) {
			g.logger.Error("assembly failed", slog.String("section", sec.Name))
			return false
		}
	}

	return true
}

// Validate checks every section of the built registry in order and stops
// at the first invalid one. Missing required tags are reported together in
// one record per section.
func (g *Generator) Validate() bool {
	if g.reg == nil {
		g.logger.Error("validate called before build")
		return false
	}

	g.results = nil

	for _, sec := range g.doc.Sections {
		res := validate.Section(g.reg, sec.Name, sec.Checks...)
		g.results = append(g.results, res)

		for _, w := range res.Warnings() {
			g.logger.Warn("tag content does not conform",
				slog.String("section", w.Section),
				slog.String("tag", w.Tag),
				slog.String("detail", w.Message),
			)
		}

		if res.HasErrors() {
			g.logger.Error("required tags are not set",
				slog.String("section", sec.Name),
				slog.Any("tags", res.Missing),
			)

			return false
		}

		if g.strict && res.HasWarnings() {
			g.logger.Error("strict mode: section has conformance warnings",
				slog.String("section", sec.Name),
				slog.Int("warnings", len(res.Warnings())),
			)

			return false
		}
	}

	return true
}

// Render builds, validates and serializes the document into memory.
func (g *Generator) Render() ([]byte, bool) {
	if !g.Build() || !g.Validate() {
		return nil, false
	}

	data, err := output.Serialize(g.reg, g.sectionNames(), g.format)
	if err != nil {
		g.logger.Error("serialization failed", slog.String("error", err.Error()))
		return nil, false
	}

	return data, true
}

// FileName returns the artifact file name for the configured identity.
func (g *Generator) FileName() string {
	if !g.env.Identity.HasName() {
		return g.format.FileName("")
	}

	return g.format.FileName(g.env.Identity.Name)
}

// Generate runs the full state machine and writes the document into dir.
// Any file already at the target path is replaced. On failure the
// incomplete artifact is removed.
func (g *Generator) Generate(dir string) bool {
	g.path = ""
	g.failed = false

	target := filepath.Join(dir, g.FileName())
	logger := g.logger.With(slog.String("path", target))

	artifact := output.NewArtifact(target, output.WithLogger(logger))

	fail := func() bool {
		g.failed = true
		logger.Error("generation aborted", slog.String("stage", g.stage.String()))

		return false
	}

	g.stage = StageEnsureTarget
	if err := artifact.Ensure(); err != nil {
		logger.Error("cannot prepare output target", slog.String("error", err.Error()))
		return fail()
	}

	g.stage = StageAssemble
	if !g.Build() {
		artifact.Abort()
		return fail()
	}

	g.stage = StageValidate
	if !g.Validate() {
		artifact.Abort()
		return fail()
	}

	g.stage = StageSerialize
	if !g.serialize(artifact, logger) {
		artifact.Abort()
		return fail()
	}

	if err := artifact.Close(); err != nil {
		logger.Error("cannot finalize artifact", slog.String("error", err.Error()))
		artifact.Abort()

		return fail()
	}

	g.stage = StageDone
	g.path = target

	logger.Info("document written", slog.Int("sections", len(g.doc.Sections)))

	return true
}

func (g *Generator) serialize(artifact *output.Artifact, logger *slog.Logger) bool {
	enc := output.NewEncoder(artifact, g.format)

	for _, name := range g.sectionNames() {
		n, err := enc.EncodeSection(g.reg, name)
		if err == nil {
			err = artifact.Flush()
		}

		if err != nil {
			logger.Error("cannot write section",
				slog.String("section", name),
				slog.String("error", err.Error()),
			)

			return false
		}

		logger.Debug("section written", slog.String("section", name), slog.Int("lines", n))
	}

	return true
}

func (g *Generator) sectionNames() []string {
	names := make([]string, 0, len(g.doc.Sections))
	for _, s := range g.doc.Sections {
		names = append(names, s.Name)
	}

	return names
}
