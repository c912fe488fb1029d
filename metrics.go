package coilprox

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from the detector.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordDetection is called after each CloseCandidates call.
	// enumerated, broadSurvived and confirmed are the candidate-pair
	// counts after each stage; err is nil on success.
	RecordDetection(enumerated, broadSurvived, confirmed int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDetection(int, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection,
// useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	detections    atomic.Int64
	failures      atomic.Int64
	enumerated    atomic.Int64
	broadSurvived atomic.Int64
	confirmed     atomic.Int64
	totalNanos    atomic.Int64
}

// RecordDetection implements MetricsCollector.
func (c *BasicMetricsCollector) RecordDetection(enumerated, broadSurvived, confirmed int, duration time.Duration, err error) {
	c.detections.Add(1)
	if err != nil {
		c.failures.Add(1)
		return
	}
	c.enumerated.Add(int64(enumerated))
	c.broadSurvived.Add(int64(broadSurvived))
	c.confirmed.Add(int64(confirmed))
	c.totalNanos.Add(int64(duration))
}

// Snapshot returns the accumulated counters.
func (c *BasicMetricsCollector) Snapshot() (detections, failures, enumerated, broadSurvived, confirmed int64, total time.Duration) {
	return c.detections.Load(),
		c.failures.Load(),
		c.enumerated.Load(),
		c.broadSurvived.Load(),
		c.confirmed.Load(),
		time.Duration(c.totalNanos.Load())
}
