package s3

// Options configures a Store.
type Options struct {
	// Prefix is prepended to all keys (e.g. "params/").
	Prefix string
	// Region overrides the region of the default AWS config.
	Region string
	// Endpoint overrides the S3 endpoint and enables path-style addressing,
	// for S3-compatible services.
	Endpoint string
	// PartSize is the part size for managed uploads and downloads.
	// Default: 8MB.
	PartSize int64
	// Concurrency is the number of parts transferred in parallel.
	// Default: 5.
	Concurrency int
}

// Option configures a Store.
type Option func(*Options)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *Options) { o.Region = region }
}

// WithEndpoint sets a custom endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) { o.Endpoint = endpoint }
}

// WithPartSize sets the transfer part size in bytes.
func WithPartSize(size int64) Option {
	return func(o *Options) { o.PartSize = size }
}

// WithConcurrency sets the number of parallel part transfers.
func WithConcurrency(n int) Option {
	return func(o *Options) { o.Concurrency = n }
}

func defaultOptions() Options {
	return Options{
		PartSize:    8 * 1024 * 1024,
		Concurrency: 5,
	}
}
