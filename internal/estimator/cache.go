package estimator

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the probe cache used across repeated runs.
const DefaultCacheSize = 65536

type cacheKey struct {
	Path        string
	Size        int64
	ModTime     int64
	HeadersOnly bool
}

type cachedProbe struct {
	probe probe
	err   error
}

// ProbeCache remembers image probes keyed by path, size and modification
// time so rescans of an unchanged tree skip decoding. It is safe for
// concurrent use.
type ProbeCache struct {
	entries *lru.Cache[cacheKey, cachedProbe]
}

func NewProbeCache(size int) (*ProbeCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, cachedProbe](size)
	if err != nil {
		return nil, err
	}
	return &ProbeCache{entries: entries}, nil
}

// Len reports the number of cached probes.
func (c *ProbeCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func (c *ProbeCache) lookup(path string, headersOnly bool) (probe, error) {
	if c == nil {
		return probeFile(path, headersOnly)
	}
	info, err := os.Stat(path)
	if err != nil {
		return probe{}, err
	}
	key := cacheKey{Path: path, Size: info.Size(), ModTime: info.ModTime().UnixNano(), HeadersOnly: headersOnly}
	if hit, ok := c.entries.Get(key); ok {
		return hit.probe, hit.err
	}
	p, err := probeFile(path, headersOnly)
	c.entries.Add(key, cachedProbe{probe: p, err: err})
	return p, err
}
