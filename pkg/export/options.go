package export

import (
	"github.com/matzehuels/layercombos/pkg/config"
	"github.com/matzehuels/layercombos/pkg/label"
)

// Options controls one export run.
type Options struct {
	Path      string  // Output directory, created on first write
	Filetype  string  // "png" or "jpeg"
	DPI       float64 // Render resolution
	ASCII     bool    // Strip non-ASCII runes from labels
	Negatives bool    // Include "-no-" fragments for hidden choices
	Lower     bool    // Lowercase labels
	Debug     bool    // Log per-combination messages at warn level
	One       bool    // Stop after the first combination of the whole run
	Dry       bool    // Compute and log labels only
	Groups    []string

	// Renderer, Converter and Quality name the collaborators in use, and
	// Inkscape and Magick their executables. They only feed the cache key.
	Renderer  string
	Converter string
	Quality   int
	Inkscape  string
	Magick    string
}

// FromConfig converts validated settings into run options. outputDir is
// the home-expanded output path.
func FromConfig(cfg config.Config, outputDir string) Options {
	return Options{
		Path:      outputDir,
		Filetype:  cfg.Filetype,
		DPI:       cfg.DPI,
		ASCII:     cfg.ASCII,
		Negatives: cfg.Negatives,
		Lower:     cfg.Lower,
		Debug:     cfg.Debug,
		One:       cfg.One,
		Dry:       cfg.Dry,
		Groups:    cfg.Groups,
		Renderer:  cfg.Renderer,
		Converter: cfg.Converter,
		Quality:   cfg.Quality,
		Inkscape:  cfg.Inkscape,
		Magick:    cfg.Magick,
	}
}

func (o Options) labelOptions() label.Options {
	return label.Options{ASCII: o.ASCII, Lower: o.Lower}
}

func (o Options) needsConversion() bool {
	return o.Filetype == config.FiletypeJPEG
}
