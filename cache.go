package glyphmatch

import "sync"

// DescriptorCache memoises descriptors by entry path so repeated
// nearest-neighbour scans over the same corpus load each image once.
// Lookups return copies; it is safe for concurrent use.
type DescriptorCache struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
	hits    int
	misses  int
}

// NewDescriptorCache returns an empty cache.
func NewDescriptorCache() *DescriptorCache {
	return &DescriptorCache{entries: make(map[string]Descriptor)}
}

// get returns the cached descriptor for path, counting a hit or a miss.
func (c *DescriptorCache) get(path string) (Descriptor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[path]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return d.Clone(), true
}

// put stores d for path. A concurrent miss on the same path may compute
// the descriptor twice; both computations yield the same value.
func (c *DescriptorCache) put(path string, d Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = d.Clone()
}

// Len returns the number of cached descriptors.
func (c *DescriptorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *DescriptorCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Invalidate drops every cached descriptor and resets the counters. Watch
// mode calls it when the corpus changes on disk.
func (c *DescriptorCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Descriptor)
	c.hits, c.misses = 0, 0
}
