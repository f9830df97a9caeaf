package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes every key by
// build version so entries written by another release are never read
// back.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HistoryKey generates a prefixed key for loaded records.
func (k *ScopedKeyer) HistoryKey(source, sourceKey string, opts HistoryKeyOpts) string {
	return k.prefix + k.inner.HistoryKey(source, sourceKey, opts)
}

// ArtifactKey generates a prefixed key for rendered output.
func (k *ScopedKeyer) ArtifactKey(historyHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(historyHash, opts)
}
