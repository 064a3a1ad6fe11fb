package cache

import "context"

// Key identifies one block of one blob.
type Key struct {
	// Path is the blob name.
	Path string
	// Block is the block index within the blob.
	Block int64
}

// BlockCache is a byte-oriented cache for immutable blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. Implementations may retain b; the caller must treat
	// it as immutable.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}

// ForPath returns a predicate matching every block of path.
func ForPath(path string) func(Key) bool {
	return func(k Key) bool { return k.Path == path }
}
