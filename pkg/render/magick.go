package render

import (
	"context"

	"github.com/charmbracelet/log"
)

// Magick converts with ImageMagick 7:
//
//	magick convert SRC DST
//
// Setting Binary to "convert" runs the ImageMagick 6 command instead, which
// takes no subcommand.
type Magick struct {
	Binary string // default "magick"
	Logger *log.Logger
}

// Convert implements [Converter].
func (c *Magick) Convert(ctx context.Context, src, dst string) error {
	bin := c.Binary
	if bin == "" {
		bin = "magick"
	}
	args := []string{src, dst}
	if bin != "convert" {
		args = append([]string{"convert"}, args...)
	}
	return runTool(ctx, c.Logger, dst, bin, args...)
}
