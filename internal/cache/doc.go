// Package cache provides LRU caching for blob blocks.
//
// LRUBlockCache is a single byte-bounded LRU. ShardedLRUBlockCache spreads
// keys over independent LRUs by xxhash of the key so concurrent document
// loads rarely contend on one lock.
package cache
