package cache

// ScopedKeyer prefixes every key of an inner Keyer. A Redis server shared
// with other applications uses it to keep layercombos entries apart:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "layercombos:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(svgHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(svgHash, opts)
}
