// Package pipeline runs the graph-generation pipeline shared by the CLI and
// the preview server: build a graph from the API model, resolve its
// cross-reference links, and render it through Graphviz with artifact
// caching.
//
// A [Runner] owns one [dot.Registry] per run, so graph UIDs and node IDs are
// unique within a run and independent runs do not leak identifiers into each
// other.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Kind:   pipeline.KindPackage,
//	    Model:  model,
//	    Format: dot.FormatSVG,
//	})
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/docforge/docgraph/pkg/apidoc"
	"github.com/docforge/docgraph/pkg/builder"
	"github.com/docforge/docgraph/pkg/cache"
	"github.com/docforge/docgraph/pkg/dot"
	"github.com/docforge/docgraph/pkg/errors"
)

// Kind selects which graph a run builds.
type Kind string

// Supported graph kinds.
const (
	KindPackage Kind = "package"
	KindClass   Kind = "class"
	KindImport  Kind = "import"
)

// ValidKinds is the set of supported graph kinds.
var ValidKinds = map[Kind]bool{
	KindPackage: true,
	KindClass:   true,
	KindImport:  true,
}

// ValidateKind checks that a graph kind is supported.
func ValidateKind(k Kind) error {
	if !ValidKinds[k] {
		return errors.New(errors.ErrCodeInvalidGraphKind,
			"invalid graph kind: %q (must be 'package', 'class', or 'import')", k)
	}
	return nil
}

// DefaultArtifactTTL is how long rendered artifacts stay cached.
const DefaultArtifactTTL = 7 * 24 * time.Hour

// Options configures one pipeline execution.
type Options struct {
	// Kind selects the graph builder.
	Kind Kind

	// Model is the API model to graph.
	Model *apidoc.Model

	// Dir overrides the layout direction (see builder.Options).
	Dir string

	// Context is the canonical name of the highlighted entity, if any.
	Context string

	// Format is the render output format. Empty means dot.DefaultFormat.
	Format dot.Format
}

// Result holds the outputs of one pipeline execution. Data is nil when
// rendering failed; the graph itself is still returned so callers can
// inspect or re-serialize it.
type Result struct {
	Graph    *dot.Graph
	Data     []byte
	CacheHit bool
}

// Runner executes the pipeline with a per-run registry, an artifact cache,
// and a renderer.
type Runner struct {
	reg      *dot.Registry
	cache    cache.Cache
	renderer *dot.Renderer
	logger   *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil renderer
// uses dot.NewRenderer, and a nil logger uses the default logger.
func NewRunner(c cache.Cache, r *dot.Renderer, l *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if r == nil {
		r = dot.NewRenderer()
	}
	if l == nil {
		l = log.Default()
	}
	return &Runner{
		reg:      dot.NewRegistry(),
		cache:    c,
		renderer: r,
		logger:   l,
	}
}

// Close releases the runner's cache.
func (r *Runner) Close() error { return r.cache.Close() }

// Registry returns the runner's per-run registry.
func (r *Runner) Registry() *dot.Registry { return r.reg }

// Build constructs the requested graph from the model and resolves its
// cross-reference links against the model's link table.
func (r *Runner) Build(opts Options) (*dot.Graph, error) {
	if err := ValidateKind(opts.Kind); err != nil {
		return nil, err
	}
	if opts.Model == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no API model supplied")
	}

	bopts := builder.Options{Dir: opts.Dir, Context: opts.Context}
	linker := opts.Model.Linker()

	var g *dot.Graph
	switch opts.Kind {
	case KindPackage:
		g = builder.PackageTree(r.reg, opts.Model.Modules, linker, bopts)
	case KindClass:
		g = builder.ClassTree(r.reg, opts.Model.Classes, linker, bopts)
	case KindImport:
		g = builder.ImportGraph(r.reg, opts.Model.Modules, opts.Model.Index(), linker, bopts)
	}

	g.Link(linker)
	return g, nil
}

// Render renders g in the given format, consulting the artifact cache first.
// The second result reports whether the artifact came from the cache.
func (r *Runner) Render(ctx context.Context, g *dot.Graph, format dot.Format) ([]byte, bool, error) {
	if format == "" {
		format = dot.DefaultFormat
	}
	if err := g.Validate(); err != nil {
		return nil, false, err
	}

	dotText := g.ToDOT()
	key := cache.ArtifactKey(cache.Hash([]byte(dotText)), string(format))

	if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
		r.logger.Debugf("artifact cache hit for %s (%s)", g.UID, format)
		return data, true, nil
	}

	data, err := r.renderer.Render(ctx, g, format)
	if err != nil {
		return nil, false, err
	}

	if err := r.cache.Set(ctx, key, data, DefaultArtifactTTL); err != nil {
		r.logger.Debugf("artifact cache write failed for %s: %v", g.UID, err)
	}
	return data, false, nil
}

// Execute builds, links, and renders in one step. A rendering failure is
// non-fatal: it is logged as a warning and the result carries the graph with
// nil Data, so callers can skip embedding that graph and continue.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	g, err := r.Build(opts)
	if err != nil {
		return nil, err
	}

	data, hit, err := r.Render(ctx, g, opts.Format)
	if err != nil {
		r.logger.Warnf("unable to render graph %s: %v", g.UID, err)
		return &Result{Graph: g}, nil
	}
	return &Result{Graph: g, Data: data, CacheHit: hit}, nil
}
