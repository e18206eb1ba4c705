// Package aggregate runs every source adapter and merges their records.
//
// Sources are fetched concurrently. A source that fails contributes no records
// and is reported in Result.Failures; it never fails the run.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/ugl-courses/internal/course"
	"github.com/pfrederiksen/ugl-courses/internal/logger"
	"github.com/pfrederiksen/ugl-courses/internal/metrics"
	"github.com/pfrederiksen/ugl-courses/internal/source"
)

// DefaultConcurrency bounds parallel fetches when none is configured.
const DefaultConcurrency = 3

// SourceFailure reports a source that contributed nothing to a run.
type SourceFailure struct {
	Source string
	Err    error
}

func (f *SourceFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

// Unwrap lets errors.Is match both ErrSourceUnavailable and the cause.
func (f *SourceFailure) Unwrap() []error {
	return []error{course.ErrSourceUnavailable, f.Err}
}

// MarshalText renders the failure for JSON responses.
func (f *SourceFailure) MarshalText() ([]byte, error) {
	return []byte(f.Error()), nil
}

// Result is the outcome of one aggregation run.
type Result struct {
	Records   []course.Record  `json:"records"`
	Failures  []*SourceFailure `json:"failures,omitempty"`
	Dropped   map[string]int   `json:"dropped,omitempty"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Aggregator fans out over a fixed list of adapters.
type Aggregator struct {
	adapters    []source.Adapter
	concurrency int
	metrics     *metrics.Metrics
	now         func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds how many sources are fetched at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithMetrics records fetch and normalize counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// WithClock overrides time.Now for FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// New creates an aggregator over adapters, which run in the given order.
func New(adapters []source.Adapter, opts ...Option) *Aggregator {
	a := &Aggregator{
		adapters:    adapters,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sources returns the adapter names in run order.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.adapters))
	for i, ad := range a.adapters {
		names[i] = ad.Name()
	}
	return names
}

type outcome struct {
	records []course.Record
	dropped []error
	err     error
}

// Run fetches and normalizes every source. Records keep adapter order, then
// each adapter's own row order.
func (a *Aggregator) Run(ctx context.Context) Result {
	outcomes := make([]outcome, len(a.adapters))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, ad := range a.adapters {
		g.Go(func() error {
			outcomes[i] = a.runOne(gCtx, ad)
			// failures stay in the outcome so the other sources keep running
			return nil
		})
	}
	_ = g.Wait()

	result := Result{
		Records:   make([]course.Record, 0),
		Dropped:   make(map[string]int),
		FetchedAt: a.now(),
	}
	for i, out := range outcomes {
		name := a.adapters[i].Name()
		if out.err != nil {
			result.Failures = append(result.Failures, &SourceFailure{Source: name, Err: out.err})
			continue
		}
		for _, rec := range out.records {
			rec = rec.Clone()
			rec.Source = name
			result.Records = append(result.Records, rec)
		}
		if len(out.dropped) > 0 {
			result.Dropped[name] = len(out.dropped)
		}
	}

	logger.Info("Aggregation complete", logger.Fields{
		"sources":  len(a.adapters),
		"records":  len(result.Records),
		"failures": len(result.Failures),
	})
	return result
}

func (a *Aggregator) runOne(ctx context.Context, ad source.Adapter) outcome {
	name := ad.Name()
	start := time.Now()

	rows, err := ad.Fetch(ctx)
	a.metrics.ObserveFetch(name, time.Since(start), err)
	if err != nil {
		logger.Warn("Source unavailable", logger.Fields{"source": name}, err)
		return outcome{err: err}
	}

	records, dropped := ad.Normalize(rows)
	for _, rowErr := range dropped {
		logger.Debug("Row dropped", logger.Fields{"source": name, "reason": rowErr.Error()})
	}
	a.metrics.AddNormalized(name, len(records))
	a.metrics.AddDropped(name, len(dropped))

	logger.Debug("Source normalized", logger.Fields{
		"source":   name,
		"rows":     len(rows),
		"records":  len(records),
		"dropped":  len(dropped),
		"duration": time.Since(start).String(),
	})
	return outcome{records: records, dropped: dropped}
}
