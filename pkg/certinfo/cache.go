package certinfo

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes certificate parses by fingerprint. It is safe for
// concurrent use: concurrent Parse calls for the same certificate
// material collapse into a single decode via the embedded singleflight
// group, and the result map is guarded by its own mutex.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Info
	group   singleflight.Group
}

// NewCache creates an empty certificate cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Info)}
}

// Parse normalizes raw (PEM-wrapped or bare base64 DER), computes its
// fingerprint, and returns the memoized Info for that fingerprint,
// parsing it first if this is the first time it's been seen.
func (c *Cache) Parse(raw string) (*Info, error) {
	der, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	fp := fingerprint(der)

	if info := c.lookup(fp); info != nil {
		return info, nil
	}

	v, err, _ := c.group.Do(fp, func() (interface{}, error) {
		if info := c.lookup(fp); info != nil {
			return info, nil
		}
		info, err := parseInfo(der, fp, raw)
		if err != nil {
			return nil, err
		}
		c.store(info)
		return info, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Info), nil
}

func (c *Cache) lookup(fp string) *Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[fp]
}

func (c *Cache) store(info *Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[info.Fingerprint] = info
}

// Clear empties the cache. Intended to be called once, at resolver
// shutdown; behavior of in-flight Parse calls racing a Clear is
// unspecified beyond not crashing.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Info)
}
