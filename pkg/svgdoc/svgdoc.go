// Package svgdoc adapts Inkscape SVG documents to the layer model.
//
// Layers are svg:g elements carrying inkscape:groupmode="layer". Namespaces
// are matched by URI, so documents that bind the Inkscape namespace to a
// prefix other than "inkscape" are handled the same way.
//
//	doc, err := svgdoc.Load("cards.svg")
//	if err != nil {
//	    return err
//	}
//	h, err := doc.Hierarchy()
//	...
//	out := doc.Annotate(res.Show, res.Hide)
//	err = out.WriteFile(tmp)
package svgdoc

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/layercombos/pkg/directive"
	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/layer"
)

// XML namespaces used by Inkscape documents.
const (
	NamespaceSVG      = "http://www.w3.org/2000/svg"
	NamespaceInkscape = "http://www.inkscape.org/namespaces/inkscape"
)

const (
	styleVisible = "display:inline"
	styleHidden  = "display:none"
)

// Document is a parsed SVG document.
type Document struct {
	doc *etree.Document
}

// Load reads and parses the SVG file at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Read parses an SVG document from r.
func Read(r io.Reader) (*Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse svg")
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no <svg> root element")
	}
	return &Document{doc: doc}, nil
}

// LayerNodes returns every layer element in document order.
func (d *Document) LayerNodes() []layer.Node {
	var nodes []layer.Node
	walk(d.doc.Root(), func(e *etree.Element) {
		if isLayer(e) {
			nodes = append(nodes, Node{e: e})
		}
	})
	return nodes
}

// Hierarchy builds the layer hierarchy of the document.
func (d *Document) Hierarchy() (*layer.Hierarchy, error) {
	return layer.Build(d.LayerNodes())
}

// Annotate returns a deep copy of the document with explicit visibility on
// the given layers. Layers in show get style="display:inline", then layers in
// hide get style="display:none", so an id present in both ends up hidden.
// Layers in neither set keep their existing style.
func (d *Document) Annotate(show, hide []string) *Document {
	cp := d.doc.Copy()

	byID := make(map[string][]*etree.Element)
	walk(cp.Root(), func(e *etree.Element) {
		if !isLayer(e) {
			return
		}
		if id, ok := attrNS(e, "", "id"); ok && id != "" {
			byID[id] = append(byID[id], e)
		}
	})

	for _, id := range show {
		for _, e := range byID[id] {
			e.CreateAttr("style", styleVisible)
		}
	}
	for _, id := range hide {
		for _, e := range byID[id] {
			e.CreateAttr("style", styleHidden)
		}
	}
	return &Document{doc: cp}
}

// StripHidden returns a deep copy of the document without the elements
// whose style sets display:none. Renderers that ignore the display property
// rasterize this copy instead of the annotated document.
func (d *Document) StripHidden() *Document {
	cp := d.doc.Copy()
	var hidden []*etree.Element
	walk(cp.Root(), func(e *etree.Element) {
		if isHidden(e) {
			hidden = append(hidden, e)
		}
	})
	for _, e := range hidden {
		if p := e.Parent(); p != nil {
			p.RemoveChild(e)
		}
	}
	return &Document{doc: cp}
}

// Layer returns the layer element with the given id as a Node.
func (d *Document) Layer(id string) (Node, bool) {
	var found *etree.Element
	walk(d.doc.Root(), func(e *etree.Element) {
		if found != nil || !isLayer(e) {
			return
		}
		if v, ok := attrNS(e, "", "id"); ok && v == id {
			found = e
		}
	})
	if found == nil {
		return Node{}, false
	}
	return Node{e: found}, true
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	b, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize svg")
	}
	return b, nil
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

// WriteFile writes the serialized document to path.
func (d *Document) WriteFile(path string) error {
	if err := d.doc.WriteToFile(path); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	return nil
}

// Hash returns the hex-encoded SHA-256 of the serialized document.
func (d *Document) Hash() (string, error) {
	sum := sha256.New()
	if _, err := d.WriteTo(sum); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize svg")
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// Node is a layer element of a Document. Node values wrapping the same
// element are equal.
type Node struct {
	e *etree.Element
}

// ID returns the element's id attribute.
func (n Node) ID() (string, bool) {
	return attrNS(n.e, "", "id")
}

// Label returns the inkscape:label attribute.
func (n Node) Label() (string, bool) {
	return attrNS(n.e, NamespaceInkscape, "label")
}

// Directive returns the export directive attribute.
func (n Node) Directive() (string, bool) {
	return attrNS(n.e, "", directive.Attr)
}

// Parent returns the structural parent element, or nil for the root.
func (n Node) Parent() layer.Node {
	p := n.e.Parent()
	if p == nil {
		return nil
	}
	return Node{e: p}
}

// Style returns the raw style attribute.
func (n Node) Style() string {
	v, _ := attrNS(n.e, "", "style")
	return v
}

func isLayer(e *etree.Element) bool {
	if e.Tag != "g" || e.NamespaceURI() != NamespaceSVG {
		return false
	}
	mode, ok := attrNS(e, NamespaceInkscape, "groupmode")
	return ok && mode == "layer"
}

func isHidden(e *etree.Element) bool {
	style, _ := attrNS(e, "", "style")
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == "display" && strings.TrimSpace(v) == "none" {
			return true
		}
	}
	return false
}

// attrNS finds the attribute key in namespace ns. An empty ns matches only
// unprefixed attributes.
func attrNS(e *etree.Element, ns, key string) (string, bool) {
	for i := range e.Attr {
		a := &e.Attr[i]
		if a.Key != key {
			continue
		}
		if ns == "" {
			if a.Space == "" {
				return a.Value, true
			}
			continue
		}
		if a.NamespaceURI() == ns {
			return a.Value, true
		}
	}
	return "", false
}

func walk(e *etree.Element, fn func(*etree.Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, c := range e.ChildElements() {
		walk(c, fn)
	}
}
