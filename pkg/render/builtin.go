package render

import (
	"bytes"
	"context"
	"image"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/svgdoc"
)

// CSSPixelsPerInch is the user unit resolution of SVG documents.
const CSSPixelsPerInch = 96.0

// Builtin rasterizes in process with oksvg. It supports the SVG subset that
// oksvg implements (paths, basic shapes, gradients) and ignores text.
//
// oksvg does not honor display:none, so hidden elements are removed from the
// document before drawing.
type Builtin struct{}

// Render implements [Renderer].
func (r *Builtin) Render(ctx context.Context, svgPath, pngPath string, dpi float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := r.rasterize(svgPath, dpi)
	if err != nil {
		return &errors.ToolError{Tool: RendererBuiltin, Args: []string{svgPath}, Cause: err}
	}

	f, err := os.Create(pngPath)
	if err != nil {
		return &errors.ToolError{Tool: RendererBuiltin, Args: []string{pngPath}, Cause: err}
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return &errors.ToolError{Tool: RendererBuiltin, Args: []string{pngPath}, Cause: err}
	}
	if err := f.Close(); err != nil {
		return &errors.ToolError{Tool: RendererBuiltin, Args: []string{pngPath}, Cause: err}
	}
	return nil
}

func (r *Builtin) rasterize(svgPath string, dpi float64) (*image.RGBA, error) {
	doc, err := svgdoc.Load(svgPath)
	if err != nil {
		return nil, err
	}
	data, err := doc.StripHidden().Bytes()
	if err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse svg for rasterizing")
	}

	scale := dpi / CSSPixelsPerInch
	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "svg has an empty view box")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1)
	return img, nil
}
