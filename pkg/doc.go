// Package pkg provides the core libraries for layercombos.
//
// # Overview
//
// layercombos exports every combination of toggleable layers in an Inkscape
// drawing. Layers opt in with an "export-layer-combo" attribute naming a
// group and a selector; each group expands into the Cartesian product of its
// choices, and every combination is rendered to its own PNG or JPEG file.
//
// # Architecture
//
// The typical data flow:
//
//	Inkscape SVG
//	     ↓
//	[svgdoc] package (parse the document, expose layer nodes)
//	     ↓
//	[layer] + [directive] packages (hierarchy and per-layer directives)
//	     ↓
//	[combo] package (groups, axes, Cartesian expansion, show/hide resolution)
//	     ↓
//	[label] package (output file names)
//	     ↓
//	[export] package (annotate, render, convert, cache)
//	     ↓
//	PNG/JPEG files
//
// # Quick Start
//
//	doc, _ := svgdoc.Load("cards.svg")
//	r, _ := render.NewRenderer(render.RendererInkscape, render.Options{})
//	c, _ := render.NewConverter(render.ConverterMagick, render.Options{})
//
//	runner := export.NewRunner(doc, r, c, logger)
//	report, err := runner.Run(ctx, export.Options{
//	    Path:     "out",
//	    Filetype: "png",
//	    DPI:      300,
//	})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [directive] - Parses "group,selector;..." attributes into directives.
//
// [layer] - Immutable containment hierarchy of the document's layers.
//
// [combo] - Groups, axes of choices, the generic Cartesian [combo.Expand],
// and [combo.Resolve], which turns a combination into show and hide sets.
//
// [label] - Label and file name construction with optional ASCII folding and
// lowercasing.
//
// [export] - Plans and runs an export, reporting per-combination failures.
//
// ## Document and Rendering
//
// [svgdoc] - SVG document adapter built on etree: layer discovery, visibility
// annotation, hashing.
//
// [render] - Renderers (Inkscape, built-in rasterizer) and PNG to JPEG
// converters (ImageMagick, built-in).
//
// [render/nodelink] - Graphviz diagrams of the layer hierarchy.
//
// ## Infrastructure
//
// [cache] - Render cache keyed by document hash and render settings, with
// file, Redis and null backends.
//
// [config] - TOML settings with defaults and validation.
//
// [observability] - Hooks for export, cache and preview server events.
//
// [errors] - Structured error codes shared by the CLI and server.
//
// [buildinfo] - Version information stamped at build time.
package pkg
