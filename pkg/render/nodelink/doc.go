// Package nodelink draws a document's layer hierarchy as a node-link
// diagram.
//
// Each layer is a box labelled with its name; edges run from a container
// layer to its sublayers in document order. Layers carrying export
// directives are highlighted.
//
//	dot := nodelink.ToDOT(h, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [RenderSVG] uses the WebAssembly build of Graphviz bundled with
// goccy/go-graphviz, so no system Graphviz installation is required.
package nodelink
