// Package solver finds the instants at which a sampled elevation curve
// crosses a target value.
package solver

import (
	"time"
)

// ElevationFunc returns an elevation in degrees at time t.
type ElevationFunc func(t time.Time) float64

// Direction selects rising or setting crossings.
type Direction int

const (
	// Rising means the elevation increases through the target (dawn, sunrise).
	Rising Direction = iota
	// Setting means the elevation decreases through the target (sunset, dusk).
	Setting
)

func (d Direction) String() string {
	switch d {
	case Rising:
		return "rising"
	case Setting:
		return "setting"
	default:
		return "unknown"
	}
}

// Window is the search interval and its resolution.
type Window struct {
	Start time.Time
	End   time.Time

	// Steps is the number of samples across [Start, End] used to bracket a
	// crossing. Values below 2 are raised to 2.
	Steps int

	// Tolerance is the width at which bisection stops.
	Tolerance time.Duration
}

// DayWindow covers the 24 hours after midnight of day (in day's location),
// sampled every 30 minutes and refined to one second.
func DayWindow(day time.Time) Window {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return Window{
		Start:     start,
		End:       start.Add(24 * time.Hour),
		Steps:     49,
		Tolerance: time.Second,
	}
}

// Find returns the first time in w where f crosses target in direction dir.
// Samples where f is NaN never bracket a crossing.
func (w Window) Find(f ElevationFunc, target float64, dir Direction) (time.Time, bool) {
	if !w.Start.Before(w.End) {
		return time.Time{}, false
	}
	steps := w.Steps
	if steps < 2 {
		steps = 2
	}

	interval := w.End.Sub(w.Start) / time.Duration(steps-1)

	prevT := w.Start
	prev := f(prevT) - target

	for i := 1; i < steps; i++ {
		t := w.Start.Add(time.Duration(i) * interval)
		if i == steps-1 {
			t = w.End
		}
		cur := f(t) - target

		if crosses(prev, cur, dir) {
			return bisect(f, prevT, t, target, dir, w.Tolerance), true
		}

		prevT, prev = t, cur
	}

	return time.Time{}, false
}

func crosses(a, b float64, dir Direction) bool {
	if dir == Setting {
		return a > 0 && b <= 0
	}
	return a < 0 && b >= 0
}

func bisect(f ElevationFunc, a, b time.Time, target float64, dir Direction, tol time.Duration) time.Time {
	if tol <= 0 {
		tol = time.Second
	}

	fa := f(a) - target
	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		fm := f(mid) - target

		if crosses(fa, fm, dir) {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}

	return a.Add(b.Sub(a) / 2)
}
