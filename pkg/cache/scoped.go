package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each caller a separate
// namespace in a shared cache:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ci:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(modelHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(modelHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(reportKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(reportKey, opts)
}
