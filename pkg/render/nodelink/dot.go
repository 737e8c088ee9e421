package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/layercombos/pkg/layer"
)

// Options configures hierarchy diagram rendering.
type Options struct {
	// Detailed adds the layer id and every directive to node labels.
	// When false, only the layer label is shown.
	Detailed bool
}

// ToDOT converts a layer hierarchy to Graphviz DOT. Edges point from a layer
// to its children. Layers that carry directives are filled so the export
// roots stand out.
func ToDOT(h *layer.Hierarchy, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layers {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, l := range h.Layers() {
		fmt.Fprintf(&buf, "  %q [%s];\n", l.ID, strings.Join(fmtAttrs(l, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, l := range h.Layers() {
		for _, c := range h.Children(l) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", l.ID, c.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(l *layer.Layer, detailed bool) string {
	if !detailed {
		return l.Label
	}
	parts := []string{l.Label, "#" + l.ID}
	for _, d := range l.Directives {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Group, d.Selector))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(l *layer.Layer, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(l, detailed))}
	if l.HasDirectives() {
		attrs = append(attrs, "fillcolor=\"#fde68a\"")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
