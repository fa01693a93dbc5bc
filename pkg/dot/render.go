package dot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"
	"github.com/google/uuid"

	"github.com/docforge/docgraph/pkg/errors"
)

// Format is a Graphviz output format.
type Format string

// Supported output formats.
const (
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatJPEG Format = "jpeg"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatDOT  Format = "dot"
)

// DefaultFormat is used when callers don't request a format explicitly.
// PNG keeps the historical raster default; SVG and PDF are first-class.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[Format]bool{
	FormatPNG:  true,
	FormatGIF:  true,
	FormatJPEG: true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(f Format) error {
	if !ValidFormats[f] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid output format: %q (must be one of: png, gif, jpeg, svg, pdf, dot)", f)
	}
	return nil
}

const (
	// DefaultCommand is the external layout tool invoked for rendering.
	DefaultCommand = "dot"

	// DefaultTimeout bounds one render invocation. A layout process that
	// never drains its output or never exits is killed when it elapses.
	DefaultTimeout = 30 * time.Second
)

// Renderer invokes the Graphviz layout tool to turn graphs into images.
// The serialized DOT text is fed on the subprocess's stdin and the rendered
// output is read from its stdout.
//
// The zero value renders with DefaultCommand and DefaultTimeout and no
// embedded fallback; NewRenderer enables the fallback.
type Renderer struct {
	// Command is the layout executable, looked up on PATH. Defaults to "dot".
	Command string

	// Timeout is the wall-clock limit for one render. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Embedded falls back to the Graphviz build embedded in goccy/go-graphviz
	// when Command is not installed.
	Embedded bool
}

// NewRenderer creates a renderer with default command, timeout, and the
// embedded fallback enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		Command:  DefaultCommand,
		Timeout:  DefaultTimeout,
		Embedded: true,
	}
}

// Render serializes g and renders it in the requested format. On success it
// returns exactly the bytes the layout tool wrote to its stdout.
//
// Failures are coded: RENDERER_NOT_FOUND when the command is missing and the
// embedded fallback is disabled, RENDER_TIMEOUT when the subprocess exceeds
// the renderer's timeout, RENDER_FAILED (carrying the subprocess stderr) for
// a nonzero exit.
func (r *Renderer) Render(ctx context.Context, g *Graph, format Format) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	command := r.Command
	if command == "" {
		command = DefaultCommand
	}

	path, err := exec.LookPath(command)
	if err != nil {
		if r.Embedded {
			return renderEmbedded(ctx, g, format)
		}
		return nil, errors.Wrap(errors.ErrCodeRendererNotFound, err,
			"%s is not installed (install Graphviz, or enable the embedded renderer)", command)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-T"+string(format))
	cmd.WaitDelay = time.Second
	cmd.Stdin = strings.NewReader(g.ToDOT())

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeRenderTimeout, ctx.Err(),
				"%s timed out after %s rendering %s", command, timeout, g.UID)
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err,
			"%s -T%s: %s", command, format, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}

// WriteFile renders g and writes the result to path, overwriting any
// existing file. The write goes through a uniquely named temp file in the
// same directory followed by a rename, so a failed render or interrupted
// write never leaves a truncated output file behind.
func (r *Renderer) WriteFile(ctx context.Context, g *Graph, path string, format Format) error {
	data, err := r.Render(ctx, g, format)
	if err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// renderEmbedded renders through the WASM Graphviz build shipped with
// goccy/go-graphviz. Used when the external command is unavailable.
func renderEmbedded(ctx context.Context, g *Graph, format Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init embedded graphviz")
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(g.ToDOT()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT for %s", g.UID)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, embeddedFormat(format), &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s as %s", g.UID, format)
	}
	return buf.Bytes(), nil
}

// embeddedFormat maps a Format to the goccy/go-graphviz format constant.
func embeddedFormat(f Format) graphviz.Format {
	switch f {
	case FormatPNG:
		return graphviz.PNG
	case FormatSVG:
		return graphviz.SVG
	case FormatJPEG:
		return graphviz.JPG
	default:
		return graphviz.Format(f)
	}
}
