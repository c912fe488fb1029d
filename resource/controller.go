// Package resource bounds the background cost of snapshot archiving.
//
// Detection runs inside a hot optimization loop; archiving coil sets to a
// blob store happens alongside it. The Controller caps how many archive
// jobs run at once and how many bytes per second they may push, so a slow
// object store never steals CPU or bandwidth from detection.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxArchiveJobs is the maximum number of concurrent archive jobs.
	// If 0, defaults to 1.
	MaxArchiveJobs int64

	// IOLimitBytesPerSec caps archive throughput. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages archive concurrency and IO throughput.
// A nil Controller applies no limits.
type Controller struct {
	jobSem    *semaphore.Weighted
	ioLimiter *rate.Limiter
}

// NewController creates a controller for the given limits.
func NewController(cfg Config) *Controller {
	if cfg.MaxArchiveJobs <= 0 {
		cfg.MaxArchiveJobs = 1
	}

	c := &Controller{
		jobSem: semaphore.NewWeighted(cfg.MaxArchiveJobs),
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireJob blocks until an archive job slot is free or ctx is canceled.
func (c *Controller) AcquireJob(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.jobSem.Acquire(ctx, 1)
}

// ReleaseJob returns an archive job slot.
func (c *Controller) ReleaseJob() {
	if c == nil {
		return
	}
	c.jobSem.Release(1)
}

// WaitIO blocks until the limiter admits n bytes of archive IO.
// Bursts larger than the limiter capacity are admitted in slices.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
