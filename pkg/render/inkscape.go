package render

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"
)

// Inkscape renders with the Inkscape command line:
//
//	inkscape --export-type=png -d DPI --export-filename=OUT IN
type Inkscape struct {
	Binary string // default "inkscape"
	Logger *log.Logger
}

// Render implements [Renderer].
func (r *Inkscape) Render(ctx context.Context, svgPath, pngPath string, dpi float64) error {
	return runTool(ctx, r.Logger, pngPath, r.binary(), inkscapeArgs(svgPath, pngPath, dpi)...)
}

func (r *Inkscape) binary() string {
	if r.Binary == "" {
		return "inkscape"
	}
	return r.Binary
}

func inkscapeArgs(svgPath, pngPath string, dpi float64) []string {
	return []string{
		"--export-type=png",
		"-d", strconv.FormatFloat(dpi, 'f', -1, 64),
		"--export-filename=" + pngPath,
		svgPath,
	}
}
