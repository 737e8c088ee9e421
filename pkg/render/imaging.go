package render

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/layercombos/pkg/errors"
)

// Imaging converts in process with disintegration/imaging. Transparent
// pixels are flattened onto white, since JPEG has no alpha channel.
type Imaging struct {
	Quality int // JPEG quality 1-100, default [DefaultQuality]
}

// Convert implements [Converter]. The output format follows the extension
// of dst.
func (c *Imaging) Convert(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := imaging.Open(src)
	if err != nil {
		return &errors.ToolError{Tool: ConverterBuiltin, Args: []string{src, dst}, Cause: err}
	}

	b := img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	quality := c.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	if err := imaging.Save(flat, dst, imaging.JPEGQuality(quality)); err != nil {
		return &errors.ToolError{Tool: ConverterBuiltin, Args: []string{src, dst}, Cause: err}
	}
	return nil
}
