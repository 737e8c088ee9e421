// Package directive parses the per-layer export directives that drive
// combination generation.
//
// A layer opts into exporting by carrying an "export-layer-combo" attribute
// made of one or more "group,selector" pairs separated by semicolons:
//
//	front,combo-children
//	card1,visible;card1,hidden
//
// The group is an arbitrary name that partitions the output into independent
// combination sets. The selector is one of [SelectorComboChildren],
// [SelectorVisible] or [SelectorHidden].
//
// Parsing is all-or-nothing: a single malformed fragment fails the whole
// attribute with a FormatError (code INVALID_DIRECTIVE). Separators are
// matched exactly; whitespace around them is not trimmed.
package directive

import (
	"fmt"
	"strings"

	"github.com/matzehuels/layercombos/pkg/errors"
)

// Attr is the name of the layer attribute that carries directives.
const Attr = "export-layer-combo"

const (
	groupSeparator    = ";"
	selectorSeparator = ","
)

// Selector controls how a layer participates in a group's combinations.
type Selector string

const (
	// SelectorComboChildren makes each direct child of the layer one
	// alternative of a combination axis, hiding its siblings.
	SelectorComboChildren Selector = "combo-children"

	// SelectorVisible forces the layer (and its ancestors) visible.
	SelectorVisible Selector = "visible"

	// SelectorHidden forces the layer hidden.
	SelectorHidden Selector = "hidden"
)

var selectors = []Selector{SelectorComboChildren, SelectorVisible, SelectorHidden}

// Selectors returns the recognized selector vocabulary in declaration order.
func Selectors() []Selector {
	return append([]Selector(nil), selectors...)
}

// Valid reports whether s is part of the selector vocabulary.
func (s Selector) Valid() bool {
	for _, v := range selectors {
		if s == v {
			return true
		}
	}
	return false
}

// Owner identifies the layer a directive was read from.
type Owner struct {
	ID    string
	Label string
}

func (o Owner) String() string {
	return fmt.Sprintf("'%s'(#%s)", o.Label, o.ID)
}

// Directive is one (group, selector) requirement attached to a layer.
type Directive struct {
	Layer    string   // ID of the owning layer
	Group    string   // Combination group name
	Selector Selector // How the layer participates
	Raw      string   // Full attribute value the directive came from
}

// ParseAttr parses an optional attribute value. An absent attribute yields
// no directives and no error, which is the common case.
func ParseAttr(owner Owner, raw string, present bool) ([]Directive, error) {
	if !present {
		return nil, nil
	}
	return Parse(owner, raw)
}

// Parse splits raw into directives. Every fragment must be exactly
// "group,selector" with a non-empty group and a recognized selector,
// otherwise a FormatError naming owner and the fragment is returned and no
// directives are produced.
func Parse(owner Owner, raw string) ([]Directive, error) {
	fragments := strings.Split(raw, groupSeparator)
	result := make([]Directive, 0, len(fragments))

	for _, fragment := range fragments {
		fields := strings.Split(fragment, selectorSeparator)
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			return nil, errors.New(errors.ErrCodeInvalidDirective,
				"layer %s has an invalid form %q: expected format is '[group],[selector]'", owner, fragment)
		}

		sel := Selector(fields[1])
		if !sel.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidDirective,
				"layer %s has an invalid selector %q: only the following are valid: %s", owner, fields[1], vocabulary())
		}

		result = append(result, Directive{
			Layer:    owner.ID,
			Group:    fields[0],
			Selector: sel,
			Raw:      raw,
		})
	}

	return result, nil
}

// Format renders directives back into attribute syntax.
func Format(dirs []Directive) string {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = d.Group + selectorSeparator + string(d.Selector)
	}
	return strings.Join(parts, groupSeparator)
}

// IsFormatError reports whether err is a directive FormatError.
func IsFormatError(err error) bool {
	return errors.Is(err, errors.ErrCodeInvalidDirective)
}

func vocabulary() string {
	names := make([]string, len(selectors))
	for i, s := range selectors {
		names[i] = string(s)
	}
	return "[" + strings.Join(names, ", ") + "]"
}
