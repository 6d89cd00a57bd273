package solarnoaa

import (
	"context"
	"iter"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/thurmanmarka/solarnoaa/internal/sun"
	"github.com/thurmanmarka/solarnoaa/internal/timeutil"
)

// SunPosition returns the Sun's elevation and azimuth for c at the wall
// clock of t. With atmosphericCorrection the elevation includes refraction;
// the azimuth is the same either way.
func SunPosition(c Coordinates, t time.Time, atmosphericCorrection bool) (Position, error) {
	if err := c.Validate(); err != nil {
		return Position{}, err
	}

	local := c.local(t)
	_, _, g := c.geometryAt(local)
	p := sun.PositionAt(c.Lat, c.Lon, c.TZ, timeutil.DayFraction(local), g)

	elevation := p.Elevation
	if atmosphericCorrection {
		elevation = p.CorrectedElevation
	}

	switch {
	case math.IsNaN(elevation):
		return Position{}, &DomainError{Quantity: "elevation", Time: local}
	case math.IsNaN(p.Azimuth):
		return Position{}, &DomainError{Quantity: "azimuth", Time: local}
	}

	return Position{
		Time:      local,
		Elevation: elevation,
		Azimuth:   p.Azimuth,
	}, nil
}

// SunPositions lazily applies SunPosition to each instant of ts, in order.
// An instant that fails yields its error and the sequence carries on with
// the next one. The sequence holds no state and can be ranged over again.
func SunPositions(c Coordinates, ts iter.Seq[time.Time], atmosphericCorrection bool) iter.Seq2[Position, error] {
	return func(yield func(Position, error) bool) {
		for t := range ts {
			if !yield(SunPosition(c, t, atmosphericCorrection)) {
				return
			}
		}
	}
}

// InstantRange yields start, start+step, ... up to but excluding stop.
// A non-positive step yields nothing.
func InstantRange(start, stop time.Time, step time.Duration) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if step <= 0 {
			return
		}
		for t := start; t.Before(stop); t = t.Add(step) {
			if !yield(t) {
				return
			}
		}
	}
}

// PositionResult is one element of SunPositionsParallel.
type PositionResult struct {
	Position Position
	Err      error
}

// SunPositionsParallel evaluates SunPosition for every instant of ts on up
// to workers goroutines (GOMAXPROCS if workers <= 0). Results are returned in
// input order. If ctx is cancelled before every instant has been handed to a
// worker, the partial results are discarded and ctx.Err() is returned; a
// cancellation after that point does not affect the result.
func SunPositionsParallel(ctx context.Context, c Coordinates, ts []time.Time, atmosphericCorrection bool, workers int) ([]PositionResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(ts) {
		workers = len(ts)
	}

	results := make([]PositionResult, len(ts))
	jobs := make(chan int, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				p, err := SunPosition(c, ts[idx], atmosphericCorrection)
				results[idx] = PositionResult{Position: p, Err: err}
			}
		}()
	}

	// Feed jobs until done or cancelled.
	var cancelled error
	func() {
		defer close(jobs)
		for idx := range ts {
			if err := ctx.Err(); err != nil {
				cancelled = err
				return
			}
			select {
			case jobs <- idx:
			case <-ctx.Done():
				cancelled = ctx.Err()
				return
			}
		}
	}()

	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}
