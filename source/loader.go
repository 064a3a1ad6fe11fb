package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hupe1980/paramgrid/blobstore"
	minioblob "github.com/hupe1980/paramgrid/blobstore/minio"
	s3blob "github.com/hupe1980/paramgrid/blobstore/s3"
	"github.com/hupe1980/paramgrid/codec"
	"github.com/hupe1980/paramgrid/internal/cache"
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedScheme is returned for a URI scheme with no store.
var ErrUnsupportedScheme = errors.New("unsupported uri scheme")

// Loader fetches and decodes parameter documents.
// It is safe for concurrent use.
type Loader struct {
	opts  options
	cache cache.BlockCache

	mu     sync.Mutex
	remote map[string]blobstore.BlobStore
}

// NewLoader creates a loader. s3:// URIs resolve through the default AWS
// configuration and minio:// URIs through the MINIO_* environment unless
// overridden with WithResolver.
func NewLoader(optFns ...Option) *Loader {
	opts := defaultOptions()
	opts.resolvers["s3"] = func(ctx context.Context, bucket string) (blobstore.BlobStore, error) {
		return s3blob.New(ctx, bucket)
	}
	opts.resolvers["minio"] = func(_ context.Context, bucket string) (blobstore.BlobStore, error) {
		return minioblob.FromEnv(bucket, "")
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	l := &Loader{
		opts:   opts,
		remote: make(map[string]blobstore.BlobStore),
	}
	if opts.cacheBytes > 0 {
		l.cache = cache.NewShardedLRUBlockCache(opts.cacheBytes)
	}
	return l
}

// location is a parsed document URI.
type location struct {
	scheme string
	bucket string
	name   string
}

func (loc location) String() string {
	switch {
	case loc.scheme == "":
		return loc.name
	case loc.bucket == "":
		return loc.scheme + "://" + loc.name
	default:
		return loc.scheme + "://" + loc.bucket + "/" + loc.name
	}
}

// IsInline reports whether uri is document text rather than an address.
func IsInline(uri string) bool {
	s := strings.TrimSpace(uri)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") || strings.Contains(s, "\n")
}

func (l *Loader) parse(uri string) (location, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return location{name: uri}, nil
	}
	if scheme == "file" {
		return location{name: rest}, nil
	}
	if _, ok := l.opts.stores[scheme]; ok {
		return location{scheme: scheme, name: strings.Trim(rest, "/")}, nil
	}
	if _, ok := l.opts.resolvers[scheme]; !ok {
		return location{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return location{}, fmt.Errorf("%s: expected %s://bucket/key", uri, scheme)
	}
	return location{scheme: scheme, bucket: bucket, name: key}, nil
}

// store returns the store for loc and the blob name within it.
func (l *Loader) store(ctx context.Context, loc location) (blobstore.BlobStore, string, error) {
	if loc.scheme == "" {
		abs, err := filepath.Abs(loc.name)
		if err != nil {
			return nil, "", err
		}
		return blobstore.NewLocalStore(filepath.Dir(abs)), filepath.Base(abs), nil
	}
	if st, ok := l.opts.stores[loc.scheme]; ok {
		return st, loc.name, nil
	}

	key := loc.scheme + "://" + loc.bucket
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.remote[key]; ok {
		return st, loc.name, nil
	}
	st, err := l.opts.resolvers[loc.scheme](ctx, loc.bucket)
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s: %w", key, err)
	}
	if l.cache != nil {
		st = blobstore.NewCachingStore(st, l.cache, l.opts.cacheBlock)
	}
	l.remote[key] = st
	return st, loc.name, nil
}

func (l *Loader) isRemote(loc location) bool {
	_, registered := l.opts.stores[loc.scheme]
	return loc.scheme != "" && !registered
}

// downloader is implemented by stores with a faster whole-blob path.
type downloader interface {
	Download(ctx context.Context, name string) ([]byte, error)
}

// Fetch returns the decompressed bytes behind uri. Inline documents are
// returned as is.
func (l *Loader) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if IsInline(uri) {
		return []byte(uri), nil
	}
	loc, err := l.parse(uri)
	if err != nil {
		return nil, err
	}
	st, name, err := l.store(ctx, loc)
	if err != nil {
		return nil, err
	}
	if l.opts.limiter != nil && l.isRemote(loc) {
		if err := l.opts.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var data []byte
	if d, ok := st.(downloader); ok {
		data, err = d.Download(ctx, name)
	} else {
		data, err = blobstore.ReadAll(ctx, st, name)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", loc, err)
	}
	return Decompress(name, data)
}

// Load fetches and decodes one document.
func (l *Loader) Load(ctx context.Context, uri string) (*Document, error) {
	doc, err := l.load(ctx, uri)
	desc := uri
	if IsInline(uri) {
		desc = "inline"
	}
	params := 0
	if doc != nil {
		params = len(doc.Params)
	}
	l.opts.logger.LogLoad(ctx, desc, params, err)
	return doc, err
}

func (l *Loader) load(ctx context.Context, uri string) (*Document, error) {
	data, err := l.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	c := codec.Sniff(data)
	if !IsInline(uri) {
		c = codec.ForPath(StripCompression(uri))
	}
	doc, err := Decode(c, data)
	if err != nil {
		if IsInline(uri) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", uri, err)
	}
	return doc, nil
}

// LoadAll loads documents in parallel. The result keeps the order of uris;
// the first error cancels the remaining fetches.
func (l *Loader) LoadAll(ctx context.Context, uris ...string) ([]*Document, error) {
	docs := make([]*Document, len(uris))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.concurrency)
	for i, uri := range uris {
		g.Go(func() error {
			doc, err := l.Load(gctx, uri)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Save writes data to uri, compressing it when the name ends in ".zst" or
// ".lz4".
func (l *Loader) Save(ctx context.Context, uri string, data []byte) error {
	if IsInline(uri) {
		return errors.New("cannot save to an inline document")
	}
	loc, err := l.parse(uri)
	if err != nil {
		return err
	}
	st, name, err := l.store(ctx, loc)
	if err != nil {
		return err
	}
	data, err = Compress(name, data)
	if err != nil {
		return err
	}
	if err := st.Put(ctx, name, data); err != nil {
		return fmt.Errorf("save %s: %w", loc, err)
	}
	return nil
}
