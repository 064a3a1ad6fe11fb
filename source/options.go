package source

import (
	"context"

	"github.com/hupe1980/paramgrid"
	"github.com/hupe1980/paramgrid/blobstore"
	"golang.org/x/time/rate"
)

// Resolver returns the store serving a bucket of a URI scheme.
type Resolver func(ctx context.Context, bucket string) (blobstore.BlobStore, error)

type options struct {
	resolvers   map[string]Resolver
	stores      map[string]blobstore.BlobStore
	limiter     *rate.Limiter
	concurrency int
	logger      *paramgrid.Logger
	cacheBytes  int64
	cacheBlock  int64
}

// Option configures a Loader.
type Option func(*options)

// WithStore serves every URI of scheme from store. The host and path of
// the URI together form the blob name, so mem://docs/rate.json reads
// "docs/rate.json".
func WithStore(scheme string, store blobstore.BlobStore) Option {
	return func(o *options) {
		o.stores[scheme] = store
	}
}

// WithResolver serves URIs of scheme from the store fn returns for the
// URI host. The path, without its leading slash, is the blob name.
func WithResolver(scheme string, fn Resolver) Option {
	return func(o *options) {
		o.resolvers[scheme] = fn
	}
}

// WithRateLimit limits fetches from remote stores to perSecond requests
// with the given burst. Local paths and inline documents are not limited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithConcurrency sets the number of documents LoadAll fetches in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *paramgrid.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = paramgrid.NoopLogger()
		}
		o.logger = l
	}
}

// WithBlockCache caches remote reads in an LRU of capacity bytes, split
// into blocks of blockSize bytes.
func WithBlockCache(capacity, blockSize int64) Option {
	return func(o *options) {
		o.cacheBytes = capacity
		o.cacheBlock = blockSize
	}
}

func defaultOptions() options {
	return options{
		resolvers:   make(map[string]Resolver),
		stores:      make(map[string]blobstore.BlobStore),
		concurrency: 4,
		logger:      paramgrid.NoopLogger(),
		cacheBlock:  64 * 1024,
	}
}
