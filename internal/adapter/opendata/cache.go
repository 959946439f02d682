package opendata

import (
	"context"
	"sync"

	"github.com/jgrothe/dwd-archive/internal/domain"
	"github.com/jgrothe/dwd-archive/internal/observability"
)

// CachedFetcher wraps a Fetcher with an in-memory LRU cache keyed by URL.
// Directory listings and station description files are re-read on every
// metadata build; caching them keeps repeated queries off the archive. Data
// zips should not go through this decorator, they are large and rarely
// re-fetched within one process.
type CachedFetcher struct {
	inner   domain.Fetcher
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner domain.Fetcher, maxEntries int, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if body, ok := c.cache.get(url); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return body, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	body, err := c.inner.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	// Only successful responses are cached so transient failures retry.
	c.cache.put(url, body)
	return body, nil
}

// lruCache is a simple thread-safe LRU cache for response bodies.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []byte
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
