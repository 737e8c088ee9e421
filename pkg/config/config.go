// Package config loads export settings from TOML files.
//
// Settings are resolved in three steps: built-in defaults, then an optional
// TOML file, then command-line flags that were set explicitly (the CLI
// applies the last step). A minimal file:
//
//	path = "~/cards/out"
//	filetype = "png"
//	dpi = 300
//	lower = true
//	groups = ["front", "back"]
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/render"
)

// DefaultFile is the config file picked up from the working directory when
// no file is named explicitly.
const DefaultFile = "layercombos.toml"

// Output file types.
const (
	FiletypePNG  = "png"
	FiletypeJPEG = "jpeg"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheNone  = "none"
	CacheRedis = "redis"
)

// Default values.
const (
	DefaultPath     = "~/"
	DefaultFiletype = FiletypeJPEG
	DefaultDPI      = 90.0
)

// Config holds every export setting.
type Config struct {
	Path      string  `toml:"path"`
	Filetype  string  `toml:"filetype"`
	DPI       float64 `toml:"dpi"`
	ASCII     bool    `toml:"ascii"`
	Negatives bool    `toml:"negatives"`
	Lower     bool    `toml:"lower"`
	Debug     bool    `toml:"debug"`
	One       bool    `toml:"one"`
	Dry       bool    `toml:"dry"`

	Renderer  string   `toml:"renderer"`
	Converter string   `toml:"converter"`
	Inkscape  string   `toml:"inkscape"`
	Magick    string   `toml:"magick"`
	Quality   int      `toml:"quality"`
	Groups    []string `toml:"groups"`

	Cache    string `toml:"cache"`
	RedisURL string `toml:"redis_url"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Path:      DefaultPath,
		Filetype:  DefaultFiletype,
		DPI:       DefaultDPI,
		Renderer:  render.RendererInkscape,
		Converter: render.ConverterMagick,
		Inkscape:  "inkscape",
		Magick:    "magick",
		Quality:   render.DefaultQuality,
		Cache:     CacheNone,
	}
}

// Load returns the defaults overlaid with the file at path. An empty path
// looks for [DefaultFile] in the working directory and silently falls back
// to the defaults when it is absent; a path that is named explicitly must
// exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	if err := decodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decodeFile decodes path into cfg. Keys absent from the file keep their
// current value; unknown keys are an error.
func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Path == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "path cannot be empty")
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidConfig, "filetype", c.Filetype, FiletypePNG, FiletypeJPEG); err != nil {
		return err
	}
	if c.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be positive, got %v", c.DPI)
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidConfig, "renderer", c.Renderer, render.Renderers()...); err != nil {
		return err
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidConfig, "converter", c.Converter, render.Converters()...); err != nil {
		return err
	}
	if c.Quality < 1 || c.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "quality must be between 1 and 100, got %d", c.Quality)
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidConfig, "cache", c.Cache, CacheFile, CacheNone, CacheRedis); err != nil {
		return err
	}
	if c.Cache == CacheRedis && c.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache %q requires redis_url", CacheRedis)
	}
	for _, g := range c.Groups {
		if g == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "groups cannot contain an empty name")
		}
	}
	return nil
}

// OutputDir returns Path with a leading "~" expanded to the home directory.
func (c *Config) OutputDir() (string, error) {
	return ExpandHome(c.Path)
}

// RenderOptions returns the settings for creating renderers and converters.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Inkscape: c.Inkscape,
		Magick:   c.Magick,
		Quality:  c.Quality,
	}
}

// ExpandHome expands a leading "~" or "~/" in p.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "expand %s", p)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
