package cache

import (
	"context"
	"sync"
	"sync/atomic"
)

// LRUBlockCache is a BlockCache bounded in bytes that evicts the least
// recently used block first.
type LRUBlockCache struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	nodes    map[Key]*node
	head     node // sentinel; head.next is the most recently used

	hits   atomic.Int64
	misses atomic.Int64
}

type node struct {
	key        Key
	block      []byte
	prev, next *node
}

// NewLRUBlockCache creates a cache holding at most capacity bytes.
func NewLRUBlockCache(capacity int64) *LRUBlockCache {
	c := &LRUBlockCache{
		capacity: capacity,
		nodes:    make(map[Key]*node),
	}
	c.head.prev = &c.head
	c.head.next = &c.head
	return c
}

// Get returns a cached block.
func (c *LRUBlockCache) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.nodes[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.unlink(n)
	c.pushFront(n)
	return n.block, true
}

// Set caches a block. A new block larger than the capacity is dropped.
func (c *LRUBlockCache) Set(_ context.Context, key Key, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.nodes[key]; ok {
		c.size += int64(len(b)) - int64(len(n.block))
		n.block = b
		c.unlink(n)
		c.pushFront(n)
		c.shrink()
		return
	}
	if int64(len(b)) > c.capacity {
		return
	}
	n := &node{key: key, block: b}
	c.nodes[key] = n
	c.pushFront(n)
	c.size += int64(len(b))
	c.shrink()
}

// Invalidate removes entries matching the predicate.
func (c *LRUBlockCache) Invalidate(predicate func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, n := range c.nodes {
		if predicate(key) {
			c.drop(n)
		}
	}
}

// Stats returns hit and miss counts.
func (c *LRUBlockCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the cached bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached blocks.
func (c *LRUBlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

func (c *LRUBlockCache) shrink() {
	for c.size > c.capacity && c.head.prev != &c.head {
		c.drop(c.head.prev)
	}
}

func (c *LRUBlockCache) drop(n *node) {
	c.unlink(n)
	delete(c.nodes, n.key)
	c.size -= int64(len(n.block))
}

func (c *LRUBlockCache) pushFront(n *node) {
	n.prev = &c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *LRUBlockCache) unlink(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}
