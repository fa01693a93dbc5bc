package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/docforge/docgraph/pkg/apidoc"
	"github.com/docforge/docgraph/pkg/dot"
	dgerrors "github.com/docforge/docgraph/pkg/errors"
	"github.com/docforge/docgraph/pkg/pipeline"
)

// serveCommand creates the serve command for the local preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [model.json]",
		Short: "Serve rendered graphs over HTTP for local preview",
		Long: `Run a local HTTP server that renders graphs from a model file on demand.

Routes:
  GET /graphs/{kind}?format=svg&dir=LR&context=a.b   rendered graph image
  GET /healthz                                       liveness probe

Artifacts are cached, so repeated requests for an unchanged graph do not
re-invoke the layout tool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8431", "listen address")
	return cmd
}

// runServe loads the model and serves rendered graphs until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input, addr string) error {
	logger := loggerFromContext(ctx)

	model, err := apidoc.LoadFile(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded model: %d root modules, %d base classes", len(model.Modules), len(model.Classes))

	runner := c.newRunner(ctx, false)
	defer runner.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/graphs/{kind}", c.graphHandler(runner, model))

	srv := &http.Server{Addr: addr, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Infof("Preview server listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// graphHandler renders the requested graph kind on demand.
// Validation failures are 400s; a graph that fails to render is a 502 so the
// rest of the preview keeps working.
func (c *CLI) graphHandler(runner *pipeline.Runner, model *apidoc.Model) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		kind := pipeline.Kind(chi.URLParam(req, "kind"))
		if err := pipeline.ValidateKind(kind); err != nil {
			http.Error(w, dgerrors.UserMessage(err), http.StatusBadRequest)
			return
		}

		format := c.defaultFormat()
		if f := req.URL.Query().Get("format"); f != "" {
			format = dot.Format(f)
		}
		if err := dot.ValidateFormat(format); err != nil {
			http.Error(w, dgerrors.UserMessage(err), http.StatusBadRequest)
			return
		}

		result, err := runner.Execute(req.Context(), pipeline.Options{
			Kind:    kind,
			Model:   model,
			Dir:     req.URL.Query().Get("dir"),
			Context: req.URL.Query().Get("context"),
			Format:  format,
		})
		if err != nil {
			http.Error(w, dgerrors.UserMessage(err), http.StatusBadRequest)
			return
		}
		if result.Data == nil {
			http.Error(w, "graph rendering failed", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", contentType(format))
		w.Write(result.Data)
	}
}

// contentType maps an output format to its MIME type.
func contentType(f dot.Format) string {
	switch f {
	case dot.FormatPNG:
		return "image/png"
	case dot.FormatGIF:
		return "image/gif"
	case dot.FormatJPEG:
		return "image/jpeg"
	case dot.FormatSVG:
		return "image/svg+xml"
	case dot.FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}
