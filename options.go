package coilprox

type options struct {
	workers int
	logger  *Logger
	metrics MetricsCollector
}

// Option configures a Detector.
type Option func(*options)

// WithWorkers sets the number of goroutines used per parallel stage.
// Values <= 0 select runtime.GOMAXPROCS(0). Detection is purely CPU-bound,
// so more workers than cores buys nothing.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the structured logger. Nil selects NoopLogger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics sets the metrics collector. Nil selects the no-op collector.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}
