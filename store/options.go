package store

import "time"

// Index kinds reported to an IndexObserver.
const (
	IndexOrdered = "ordered"
	IndexTree    = "tree"
)

// IndexObserver observes lazy index builds.
type IndexObserver interface {
	// OnIndexBuild is called when an index build completes. Label is empty
	// for the label tree, which covers every label.
	OnIndexBuild(duration time.Duration, indexType string, label string, entries int, err error)
}

// NoopIndexObserver is a no-op implementation of IndexObserver.
type NoopIndexObserver struct{}

func (NoopIndexObserver) OnIndexBuild(time.Duration, string, string, int, error) {}

type options struct {
	observer IndexObserver
}

// Option configures a Store.
type Option func(*options)

// WithIndexObserver reports index builds to o. A nil observer disables
// reporting.
func WithIndexObserver(o IndexObserver) Option {
	return func(opts *options) {
		if o == nil {
			o = NoopIndexObserver{}
		}
		opts.observer = o
	}
}

type queryOptions struct {
	strict bool
}

// QueryOption configures a single query.
type QueryOption func(*queryOptions)

// Strict controls whether records lacking the queried label are excluded
// (true, the default) or included as wildcard matches.
func Strict(strict bool) QueryOption {
	return func(o *queryOptions) {
		o.strict = strict
	}
}

func applyQueryOptions(fns []QueryOption) queryOptions {
	o := queryOptions{strict: true}
	for _, fn := range fns {
		fn(&o)
	}
	return o
}
