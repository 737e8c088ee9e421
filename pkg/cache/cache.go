// Package cache stores rendered combination images so repeated exports of an
// unchanged document skip the external renderer.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON entries under a local directory (CLI default,
//     ~/.cache/layercombos)
//   - [RedisCache]: a Redis server shared by several build machines
//
// # Keys
//
// Keys are derived from the hash of the visibility-annotated document plus
// every option that changes the produced bytes:
//
//	key := keyer.RenderKey(svgHash, cache.RenderKeyOpts{
//	    DPI:      90,
//	    Filetype: "jpeg",
//	    Renderer: "inkscape",
//	})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // write data to the destination
//	}
package cache

import (
	"context"
	"time"
)

// TTLRender is how long a rendered image stays cached.
const TTLRender = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the cached value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// RenderKeyOpts are the render options that affect the output bytes.
type RenderKeyOpts struct {
	DPI       float64 `json:"dpi"`
	Filetype  string  `json:"filetype"`
	Renderer  string  `json:"renderer"`
	Converter string  `json:"converter,omitempty"`
	Quality   int     `json:"quality,omitempty"`

	// RendererBin and ConverterBin are the external executables in use, so
	// switching installs never serves images made by another version.
	RendererBin  string `json:"renderer_bin,omitempty"`
	ConverterBin string `json:"converter_bin,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	RenderKey(svgHash string, opts RenderKeyOpts) string
}

// DefaultKeyer produces "render:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey generates the key for one rendered combination.
func (DefaultKeyer) RenderKey(svgHash string, opts RenderKeyOpts) string {
	return hashKey("render", svgHash, opts)
}
