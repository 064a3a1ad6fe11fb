package paramgrid

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	validator        Validator
}

// Option configures Parameters.
type Option func(*options)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
//
// Example:
//
//	collector := &paramgrid.BasicMetricsCollector{}
//	params := paramgrid.New(grid, paramgrid.WithMetricsCollector(collector))
//	// ...
//	stats := collector.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithValidator sets the validator run on added and adjusted records.
// Without one, records are accepted as given.
func WithValidator(v Validator) Option {
	return func(o *options) {
		o.validator = v
	}
}
