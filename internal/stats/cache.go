package stats

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/couchcryptid/swe-compare-service/internal/domain"
	"github.com/couchcryptid/swe-compare-service/internal/observability"
)

// Computer produces the statistics for one zone table.
type Computer interface {
	Compute(ctx context.Context, table domain.ZoneTable) (*domain.ZoneStatistics, error)
}

// CachedEngine wraps a Computer with an in-memory LRU keyed by the content of
// the zone table, so replays and repeated dashboard requests skip the
// integration work. Cached results are shared and must not be mutated.
type CachedEngine struct {
	inner   Computer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedEngine creates a cache decorator around a Computer.
func NewCachedEngine(inner Computer, maxEntries int, metrics *observability.Metrics) *CachedEngine {
	return &CachedEngine{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedEngine) Compute(ctx context.Context, table domain.ZoneTable) (*domain.ZoneStatistics, error) {
	key, err := tableDigest(table)
	if err != nil {
		return c.inner.Compute(ctx, table)
	}
	if result, ok := c.cache.get(key); ok {
		c.metrics.StatsCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.StatsCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Compute(ctx, table)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, result)
	return result, nil
}

// tableDigest identifies a table by zone plus a SHA-256 of its columns and rows.
func tableDigest(table domain.ZoneTable) (string, error) {
	data, err := json.Marshal(table)
	if err != nil {
		return "", fmt.Errorf("digest zone table: %w", err)
	}
	hash := sha256.Sum256(data)
	return table.Zone + "|" + hex.EncodeToString(hash[:]), nil
}

// lruCache is a simple thread-safe LRU cache for zone statistics.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value *domain.ZoneStatistics
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (*domain.ZoneStatistics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value *domain.ZoneStatistics) {
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

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
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
