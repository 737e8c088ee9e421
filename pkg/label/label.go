// Package label builds output labels and file names for combinations.
//
// A label is the group name followed by one fragment per named choice, e.g.
// "front-AceofSpades-Background". Labels are not checked for uniqueness:
// two combinations with the same label write to the same file and the later
// one wins.
package label

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Options controls label normalization.
type Options struct {
	ASCII bool // Drop every rune above U+007F
	Lower bool // Lowercase the whole label
}

var (
	nonASCII = runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII }))
	lower    = cases.Lower(language.Und)
)

// Build concatenates group and fragments and applies opts.
func Build(group string, fragments []string, opts Options) string {
	n := len(group)
	for _, f := range fragments {
		n += len(f)
	}
	b := make([]byte, 0, n)
	b = append(b, group...)
	for _, f := range fragments {
		b = append(b, f...)
	}
	return Normalize(string(b), opts)
}

// Normalize applies opts to an already concatenated label. ASCII stripping
// runs before lowercasing.
func Normalize(s string, opts Options) string {
	if opts.ASCII {
		if out, _, err := transform.String(nonASCII, s); err == nil {
			s = out
		}
	}
	if opts.Lower {
		s = lower.String(s)
	}
	return s
}

// Extension returns the file extension written for filetype. The jpeg
// filetype is written with the short ".jpg" extension.
func Extension(filetype string) string {
	if filetype == "jpeg" {
		return ".jpg"
	}
	return "." + filetype
}

// Filename returns the output file name for label.
func Filename(label, filetype string) string {
	return label + Extension(filetype)
}
