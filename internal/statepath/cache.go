package statepath

import "sync"

// parseCacheSize bounds the number of parsed paths Resolve keeps. Watched
// path sets are small and re-resolved on every drive.
const parseCacheSize = 256

var parsed = newParseCache(parseCacheSize)

// parseCache is a thread-safe LRU of parsed paths keyed by their dotted
// form. Cached paths are shared and must not be modified.
type parseCache struct {
	capacity int
	entries  map[string]*cacheEntry
	newest   *cacheEntry
	oldest   *cacheEntry
	mu       sync.Mutex
}

type cacheEntry struct {
	key  string
	path Path
	prev *cacheEntry
	next *cacheEntry
}

func newParseCache(capacity int) *parseCache {
	if capacity < 1 {
		capacity = 1
	}
	return &parseCache{
		capacity: capacity,
		entries:  make(map[string]*cacheEntry),
	}
}

// parse returns the cached parse of path, parsing and storing it on a miss.
// Malformed paths are not cached.
func (c *parseCache) parse(path string) (Path, error) {
	c.mu.Lock()
	if e, ok := c.entries[path]; ok {
		c.promote(e)
		c.mu.Unlock()
		return e.path, nil
	}
	c.mu.Unlock()

	p, err := Parse(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		c.promote(e)
		return e.path, nil
	}
	e := &cacheEntry{key: path, path: p}
	c.entries[path] = e
	c.pushFront(e)
	if len(c.entries) > c.capacity {
		c.evictOldest()
	}
	return p, nil
}

func (c *parseCache) promote(e *cacheEntry) {
	if e == c.newest {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *parseCache) pushFront(e *cacheEntry) {
	e.prev = nil
	e.next = c.newest
	if c.newest != nil {
		c.newest.prev = e
	}
	c.newest = e
	if c.oldest == nil {
		c.oldest = e
	}
}

func (c *parseCache) unlink(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.newest = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.oldest = e.prev
	}
}

func (c *parseCache) evictOldest() {
	e := c.oldest
	if e == nil {
		return
	}
	c.unlink(e)
	delete(c.entries, e.key)
}
