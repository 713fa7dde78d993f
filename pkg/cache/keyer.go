package cache

// Key types passed to the cache hooks.
const (
	KeyTypeTrace  = "trace"
	KeyTypeResult = "result"
)

// Keyer derives cache keys.
type Keyer interface {
	// TraceKey is the key of a saved trace.
	TraceKey(id string) string

	// ResultKey is the key of a detection or elimination result for one
	// graph (by content hash), start node and operation.
	ResultKey(graphHash, start, operation string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TraceKey keeps the id readable so traces can be inspected in Redis.
func (DefaultKeyer) TraceKey(id string) string { return "trace:" + id }

func (DefaultKeyer) ResultKey(graphHash, start, operation string) string {
	return hashKey("result", graphHash, start, operation)
}

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TraceKey(id string) string {
	return k.prefix + k.inner.TraceKey(id)
}

func (k *ScopedKeyer) ResultKey(graphHash, start, operation string) string {
	return k.prefix + k.inner.ResultKey(graphHash, start, operation)
}
