package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docforge/docgraph/pkg/apidoc"
	"github.com/docforge/docgraph/pkg/dot"
	"github.com/docforge/docgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	kind        string // graph kind: package, class, import
	format      string // output format: png, gif, jpeg, svg, pdf, dot
	output      string // output file path
	dir         string // rankdir override (LR, RL, TB, BT)
	contextName string // canonical name of the highlighted entity
	noCache     bool   // disable artifact caching
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [model.json]",
		Short: "Build a graph from an API model and render it to an image",
		Long: `Build a graph from an API model file and render it via Graphviz.

The model file is a JSON document describing the documented modules (with
submodules and recorded imports), classes (with subclasses), and a link
table mapping canonical dotted names to documentation URLs.

Graph kinds:
  package   package hierarchy of the model's root modules
  class     class hierarchy of the model's base classes
  import    import relationships among the root modules

Rendered artifacts are cached locally, keyed by the graph's DOT text, so
re-rendering an unchanged graph is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := pipeline.Kind(opts.kind)
			if err := pipeline.ValidateKind(kind); err != nil {
				return err
			}
			format := c.defaultFormat()
			if opts.format != "" {
				format = dot.Format(opts.format)
			}
			if err := dot.ValidateFormat(format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], kind, format, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "type", "t", "package", "graph kind: package (default), class, import")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png (default), gif, jpeg, svg, pdf, dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <graph-uid>.<format>)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "layout direction: LR, RL, TB, BT (default depends on kind)")
	cmd.Flags().StringVar(&opts.contextName, "context", "", "canonical name of the entity to highlight")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// runRender loads the model, builds and links the requested graph, renders
// it (cache-aware), and writes the artifact to the output path.
func (c *CLI) runRender(ctx context.Context, input string, kind pipeline.Kind, format dot.Format, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	model, err := apidoc.LoadFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded model: %d root modules, %d base classes", len(model.Modules), len(model.Classes))

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	g, err := runner.Build(pipeline.Options{
		Kind:    kind,
		Model:   model,
		Dir:     opts.dir,
		Context: opts.contextName,
	})
	if err != nil {
		return err
	}
	logger.Debugf("Built %s graph %s: %d nodes, %d edges", kind, g.UID, g.NodeCount(), g.EdgeCount())

	if g.NodeCount() == 0 {
		printError("Model has no entities for a %s graph", kind)
		return nil
	}

	sp := newSpinner(ctx, fmt.Sprintf("Rendering %s", g.UID))
	sp.start()
	data, hit, err := runner.Render(ctx, g, format)
	sp.stop()
	if err != nil {
		return err
	}

	outPath := opts.output
	if outPath == "" {
		outPath = fmt.Sprintf("%s.%s", g.UID, format)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	prog.done(fmt.Sprintf("Rendered %s graph", kind))
	printSuccess("Rendered %s graph", kind)
	printFile(outPath)
	printStats(g.NodeCount(), g.EdgeCount(), hit)
	return nil
}

// defaultFormat returns the configured default output format.
func (c *CLI) defaultFormat() dot.Format {
	if f := c.Config.Renderer.Format; f != "" {
		return dot.Format(f)
	}
	return dot.DefaultFormat
}
