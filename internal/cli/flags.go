package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/layercombos/pkg/config"
)

// configFlags mirrors the config file options on the command line. Only
// flags the user actually set override the file, so a flag's default never
// masks a value from layercombos.toml.
type configFlags struct {
	file string // --config

	path      string
	filetype  string
	dpi       float64
	ascii     bool
	negatives bool
	lower     bool
	debug     bool
	one       bool
	dry       bool
	groups    []string

	renderer  string
	converter string
	inkscape  string
	magick    string
	quality   int
	cache     string
	redisURL  string
}

// register adds the config flags to cmd, with defaults taken from
// config.Default for the help text.
func (f *configFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fl := cmd.Flags()

	fl.StringVarP(&f.file, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")

	fl.StringVarP(&f.path, "path", "p", d.Path, "output directory")
	fl.StringVarP(&f.filetype, "filetype", "t", d.Filetype, "output type: png, jpeg")
	fl.Float64VarP(&f.dpi, "dpi", "d", d.DPI, "render resolution")
	fl.BoolVar(&f.ascii, "ascii", false, "strip non-ASCII characters from file names")
	fl.BoolVar(&f.negatives, "negatives", false, "name hidden layers in file names with a -no- prefix")
	fl.BoolVar(&f.lower, "lower", false, "lowercase file names")
	fl.BoolVar(&f.debug, "debug", false, "always show per-combination messages")
	fl.BoolVar(&f.one, "one", false, "stop after the first combination")
	fl.BoolVar(&f.dry, "dry", false, "compute file names without rendering")
	fl.StringSliceVarP(&f.groups, "groups", "g", nil, "only export these groups (comma-separated)")

	fl.StringVar(&f.renderer, "renderer", d.Renderer, "svg renderer: inkscape, builtin")
	fl.StringVar(&f.converter, "converter", d.Converter, "png to jpeg converter: magick, builtin")
	fl.StringVar(&f.inkscape, "inkscape", d.Inkscape, "inkscape binary")
	fl.StringVar(&f.magick, "magick", d.Magick, "imagemagick binary")
	fl.IntVar(&f.quality, "quality", d.Quality, "jpeg quality for the builtin converter")
	fl.StringVar(&f.cache, "cache", d.Cache, "render cache: file, none, redis")
	fl.StringVar(&f.redisURL, "redis-url", "", "redis URL for --cache redis")
}

// load reads the config file, applies the flags set on cmd and validates
// the result.
func (f *configFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.file)
	if err != nil {
		return cfg, err
	}
	f.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// apply copies every explicitly set flag into cfg.
func (f *configFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool, v bool) {
		if changed(name) {
			*dst = v
		}
	}

	setString("path", &cfg.Path, f.path)
	setString("filetype", &cfg.Filetype, f.filetype)
	if changed("dpi") {
		cfg.DPI = f.dpi
	}
	setBool("ascii", &cfg.ASCII, f.ascii)
	setBool("negatives", &cfg.Negatives, f.negatives)
	setBool("lower", &cfg.Lower, f.lower)
	setBool("debug", &cfg.Debug, f.debug)
	setBool("one", &cfg.One, f.one)
	setBool("dry", &cfg.Dry, f.dry)
	if changed("groups") {
		cfg.Groups = f.groups
	}

	setString("renderer", &cfg.Renderer, f.renderer)
	setString("converter", &cfg.Converter, f.converter)
	setString("inkscape", &cfg.Inkscape, f.inkscape)
	setString("magick", &cfg.Magick, f.magick)
	if changed("quality") {
		cfg.Quality = f.quality
	}
	setString("cache", &cfg.Cache, f.cache)
	setString("redis-url", &cfg.RedisURL, f.redisURL)
}
