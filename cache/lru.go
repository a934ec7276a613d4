package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is the typed caching facade pipeline stages share. Implementations
// must be safe for concurrent use.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Purge()
	Len() int
}

type record[V any] struct {
	key     string
	value   V
	expires time.Time
}

// lru is a capacity-bounded cache with per-entry TTL. Recency order lives in
// a doubly linked list whose elements carry the records; expired records are
// dropped lazily on read and swept on write before any capacity eviction, so
// a full cache prefers reclaiming dead entries over evicting live ones.
type lru[V any] struct {
	mu         sync.Mutex
	capacity   int
	defaultTTL time.Duration
	index      map[string]*list.Element
	recency    *list.List // front = most recently used
}

// NewLRU creates a cache holding at most capacity entries, each expiring
// after defaultTTL unless Set is given an explicit TTL.
func NewLRU[V any](capacity int, defaultTTL time.Duration) Cache[V] {
	if capacity <= 0 {
		capacity = 512
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &lru[V]{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		index:      make(map[string]*list.Element, capacity),
		recency:    list.New(),
	}
}

func (c *lru[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.index[key]
	if !ok {
		return zero, false
	}
	rec := elem.Value.(*record[V])
	if time.Now().After(rec.expires) {
		c.drop(elem)
		return zero, false
	}
	c.recency.MoveToFront(elem)
	return rec.value, true
}

func (c *lru[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		rec := elem.Value.(*record[V])
		rec.value = value
		rec.expires = time.Now().Add(ttl)
		c.recency.MoveToFront(elem)
		return
	}

	if len(c.index) >= c.capacity {
		c.sweepExpired()
	}
	for len(c.index) >= c.capacity {
		c.drop(c.recency.Back())
	}

	elem := c.recency.PushFront(&record[V]{key: key, value: value, expires: time.Now().Add(ttl)})
	c.index[key] = elem
}

func (c *lru[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = make(map[string]*list.Element, c.capacity)
	c.recency.Init()
}

// Len reports the number of entries currently held, expired or not.
func (c *lru[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// sweepExpired assumes c.mu is held.
func (c *lru[V]) sweepExpired() {
	now := time.Now()
	for elem := c.recency.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*record[V]).expires) {
			c.drop(elem)
		}
		elem = prev
	}
}

// drop assumes c.mu is held.
func (c *lru[V]) drop(elem *list.Element) {
	if elem == nil {
		return
	}
	delete(c.index, elem.Value.(*record[V]).key)
	c.recency.Remove(elem)
}
