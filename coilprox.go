package coilprox

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/coilprox/geometry"
	"github.com/hupe1980/coilprox/grid"
)

// Pair is a pair of cloud indices with J < I. The output contract
// guarantees J < numBaseCurves for every returned pair.
type Pair struct {
	I, J int
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d,%d)", p.I, p.J)
}

// Detector runs close-candidate detection. It is stateless between calls
// and safe for concurrent use; construct one and reuse it across optimizer
// iterations.
type Detector struct {
	workers int
	logger  *Logger
	metrics MetricsCollector
}

// NewDetector creates a Detector.
func NewDetector(opts ...Option) *Detector {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return &Detector{
		workers: o.workers,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// CloseCandidates is a one-shot convenience wrapper around a throwaway
// Detector.
func CloseCandidates(ctx context.Context, clouds []geometry.PointCloud, threshold float64, numBaseCurves int, opts ...Option) ([]Pair, error) {
	return NewDetector(opts...).CloseCandidates(ctx, clouds, threshold, numBaseCurves)
}

// CloseCandidates returns every pair of clouds (i, j) with j < i and
// j < numBaseCurves that contain two points strictly closer than
// threshold.
//
// The result is exact: the spatial-hash broad phase only ever
// over-approximates, and the narrow phase verifies each survivor with
// exact squared-distance comparisons. Output order is deterministic for a
// fixed worker count but is not part of the contract.
func (d *Detector) CloseCandidates(ctx context.Context, clouds []geometry.PointCloud, threshold float64, numBaseCurves int) ([]Pair, error) {
	start := time.Now()

	confirmed, enumerated, broadSurvived, err := d.closeCandidates(ctx, clouds, threshold, numBaseCurves)

	elapsed := time.Since(start)
	d.metrics.RecordDetection(enumerated, broadSurvived, len(confirmed), elapsed, err)
	d.logger.LogDetection(ctx, len(clouds), enumerated, broadSurvived, len(confirmed), elapsed, err)
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

func (d *Detector) closeCandidates(ctx context.Context, clouds []geometry.PointCloud, threshold float64, numBaseCurves int) (confirmed []Pair, enumerated, broadSurvived int, err error) {
	if err := validateInputs(clouds, threshold, numBaseCurves); err != nil {
		return nil, 0, 0, err
	}

	// Stage 1: hash every cloud into its exact and expanded cell sets.
	// Builds are independent per cloud and fan out freely.
	sets := make([]grid.Sets, len(clouds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for idx := range clouds {
		idx := idx
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := grid.Build(clouds[idx], threshold)
			if err != nil {
				return &ErrInvalidCloud{Index: idx, cause: err}
			}
			sets[idx] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, 0, err
	}

	// Stage 2: enumerate the candidate universe.
	pairs := enumeratePairs(len(clouds), numBaseCurves)
	enumerated = len(pairs)

	// Stage 3: broad phase. A pair whose expanded set misses the other
	// cloud's exact set cannot contain points within the threshold.
	survivors, err := d.filterPairs(ctx, pairs, func(p Pair) bool {
		return sets[p.I].Expanded.Intersects(sets[p.J].Exact)
	})
	if err != nil {
		return nil, enumerated, 0, err
	}
	broadSurvived = len(survivors)

	// Stage 4: narrow phase. Exact pairwise verification of survivors.
	t2 := threshold * threshold
	confirmed, err = d.filterPairs(ctx, survivors, func(p Pair) bool {
		return geometry.CloudsWithin(clouds[p.I], clouds[p.J], t2)
	})
	if err != nil {
		return nil, enumerated, broadSurvived, err
	}

	return confirmed, enumerated, broadSurvived, nil
}

func validateInputs(clouds []geometry.PointCloud, threshold float64, numBaseCurves int) error {
	if !(threshold > 0) || math.IsInf(threshold, 1) {
		return ErrInvalidThreshold
	}
	if numBaseCurves < 0 || numBaseCurves > len(clouds) {
		return &ErrBaseCurvesOutOfRange{Count: numBaseCurves, Clouds: len(clouds)}
	}
	for i, cloud := range clouds {
		if err := cloud.Validate(); err != nil {
			return &ErrInvalidCloud{Index: i, cause: err}
		}
	}
	return nil
}

// enumeratePairs lists all (i, j) with 0 <= j < i < n and j < numBase.
// Pairs between two non-base clouds are intentionally excluded: in the
// intended use the non-base clouds are symmetry copies of base ones, and
// their mutual collisions are rotations of base-pair collisions.
func enumeratePairs(n, numBase int) []Pair {
	var pairs []Pair
	for i := 1; i < n; i++ {
		maxJ := min(i, numBase)
		for j := 0; j < maxJ; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return pairs
}

// filterPairs applies keep to every pair in parallel and returns the kept
// pairs. Each worker fills a private buffer; buffers are concatenated in
// chunk order after the barrier, so there is no lock on the result and the
// merged order is reproducible.
func (d *Detector) filterPairs(ctx context.Context, pairs []Pair, keep func(Pair) bool) ([]Pair, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	chunks := min(d.workers, len(pairs))
	buffers := make([][]Pair, chunks)

	g, gctx := errgroup.WithContext(ctx)
	for c := 0; c < chunks; c++ {
		c := c
		g.Go(func() error {
			lo := c * len(pairs) / chunks
			hi := (c + 1) * len(pairs) / chunks

			var kept []Pair
			for _, p := range pairs[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				if keep(p) {
					kept = append(kept, p)
				}
			}
			buffers[c] = kept
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Pair
	for _, buf := range buffers {
		out = append(out, buf...)
	}
	return out, nil
}
