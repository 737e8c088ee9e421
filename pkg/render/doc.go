// Package render turns annotated SVG documents into raster files.
//
// # Overview
//
// Rendering is split in two collaborator roles:
//
//   - [Renderer] rasterizes an SVG file to PNG at a given DPI
//   - [Converter] converts a PNG file into the final format (JPEG)
//
// Each role has an external-tool implementation that matches what Inkscape
// users already have installed, and a pure-Go implementation that needs no
// external binaries:
//
//	Renderer   Inkscape (inkscape CLI)      Builtin (oksvg + rasterx)
//	Converter  Magick   (ImageMagick CLI)   Imaging (disintegration/imaging)
//
// External tools run synchronously. Their output streams are captured and
// logged at debug level. A nonzero exit status, or a tool that exits cleanly
// without producing its output file, is reported as an
// [errors.ToolError]. There is no timeout: a hung tool blocks until the
// context is cancelled.
//
// # Selecting Implementations
//
//	r, err := render.NewRenderer("inkscape", render.Options{Logger: logger})
//	c, err := render.NewConverter("magick", render.Options{Magick: "convert"})
//
// The [nodelink] subpackage draws the layer hierarchy itself as a Graphviz
// diagram for the tree command.
//
// [errors.ToolError]: github.com/matzehuels/layercombos/pkg/errors.ToolError
// [nodelink]: github.com/matzehuels/layercombos/pkg/render/nodelink
package render
