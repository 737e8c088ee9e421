package render

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layercombos/pkg/errors"
)

// Renderer rasterizes the SVG file at svgPath to a PNG file at pngPath.
type Renderer interface {
	Render(ctx context.Context, svgPath, pngPath string, dpi float64) error
}

// Converter converts the raster file at src into dst. The target format is
// implied by dst.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// Implementation names accepted by [NewRenderer] and [NewConverter].
const (
	RendererInkscape = "inkscape"
	RendererBuiltin  = "builtin"
	ConverterMagick  = "magick"
	ConverterBuiltin = "builtin"
)

// DefaultQuality is the JPEG quality used by [Imaging] when none is set.
const DefaultQuality = 92

// Renderers returns the accepted renderer names.
func Renderers() []string { return []string{RendererInkscape, RendererBuiltin} }

// Converters returns the accepted converter names.
func Converters() []string { return []string{ConverterMagick, ConverterBuiltin} }

// Options configures the implementations created by [NewRenderer] and
// [NewConverter].
type Options struct {
	Inkscape string // inkscape binary, default "inkscape"
	Magick   string // ImageMagick binary, default "magick"
	Quality  int    // JPEG quality for the builtin converter
	Logger   *log.Logger
}

// NewRenderer returns the renderer registered under name.
func NewRenderer(name string, opts Options) (Renderer, error) {
	switch name {
	case RendererInkscape:
		return &Inkscape{Binary: opts.Inkscape, Logger: opts.Logger}, nil
	case RendererBuiltin:
		return &Builtin{}, nil
	}
	return nil, errors.ValidateOneOf(errors.ErrCodeInvalidConfig, "renderer", name, Renderers()...)
}

// NewConverter returns the converter registered under name.
func NewConverter(name string, opts Options) (Converter, error) {
	switch name {
	case ConverterMagick:
		return &Magick{Binary: opts.Magick, Logger: opts.Logger}, nil
	case ConverterBuiltin:
		return &Imaging{Quality: opts.Quality}, nil
	}
	return nil, errors.ValidateOneOf(errors.ErrCodeInvalidConfig, "converter", name, Converters()...)
}

// runTool runs an external tool to completion and checks that it produced
// output. Any file already at output is removed first. Captured stdout and
// stderr are logged at debug level and attached to the returned error.
func runTool(ctx context.Context, logger *log.Logger, output, name string, args ...string) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "remove stale %s", output)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running", "cmd", name+" "+strings.Join(args, " "))
	err := cmd.Run()
	logger.Debug("finished", "tool", name,
		"stdout", strings.TrimSpace(stdout.String()),
		"stderr", strings.TrimSpace(stderr.String()))

	if ctx.Err() != nil {
		return ctx.Err()
	}
	toolErr := &errors.ToolError{
		Tool:   name,
		Args:   args,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Cause:  err,
	}
	if err != nil {
		return toolErr
	}
	if _, err := os.Stat(output); err != nil {
		toolErr.Cause = errors.New(errors.ErrCodeExternalTool, "no output written to %s", output)
		return toolErr
	}
	return nil
}
