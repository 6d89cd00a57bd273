package solarnoaa_test

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thurmanmarka/solarnoaa"
)

var (
	boulder = solarnoaa.Coordinates{Lat: 40, Lon: -105, TZ: -6}
	mtnView = solarnoaa.Coordinates{Lat: 37.4219444444444, Lon: -122.079583333333, TZ: -8}
)

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func TestReportAt(t *testing.T) {
	r, err := solarnoaa.ReportAt(boulder, time.Date(2010, time.June, 21, 0, 6, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ReportAt() error = %v", err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"JulianDay", r.JulianDay, 2455368.75416667},
		{"JulianCentury", r.JulianCentury, 0.104688683550086},
		{"GeomMeanLong", r.Geometry.GeomMeanLong, 89.3396636153339},
		{"Declin", r.Geometry.Declin, 23.4383121595139},
		{"EqOfTime", r.Geometry.EqOfTime, -1.70630784072322},
		{"HaSunrise", r.Facts.HaSunrise, 112.610346376993},
		{"SolarNoon", r.Facts.SolarNoon, 0.542851602667169},
		{"Elevation", r.Position.Elevation, -25.245718494866},
		{"CorrectedElevation", r.Position.CorrectedElevation, -25.2334819743467},
		{"Azimuth", r.Position.Azimuth, 345.86910228316},
	}

	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 5e-8 {
			t.Errorf("%s = %.15f, want %.15f", tt.name, tt.got, tt.want)
		}
	}

	if !r.HasRiseSet() {
		t.Fatalf("HasRiseSet() = false, want true")
	}
	wantRise := time.Date(2010, time.June, 21, 5, 31, 15, 895340000, boulder.Zone())
	if d := absDuration(r.Sunrise.Sub(wantRise)); d > time.Millisecond {
		t.Errorf("Report.Sunrise = %s, want %s", r.Sunrise, wantRise)
	}
}

func TestSunPosition(t *testing.T) {
	instant := time.Date(2010, time.June, 21, 0, 6, 0, 0, time.UTC)

	tests := []struct {
		name          string
		atm           bool
		wantElevation float64
	}{
		{"with refraction", true, -25.2334819743467},
		{"geometric", false, -25.245718494866},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := solarnoaa.SunPosition(boulder, instant, tt.atm)
			if err != nil {
				t.Fatalf("SunPosition() error = %v", err)
			}
			if math.Abs(p.Elevation-tt.wantElevation) > 1e-8 {
				t.Errorf("Elevation = %.13f, want %.13f", p.Elevation, tt.wantElevation)
			}
			if math.Abs(p.Azimuth-345.86910228316) > 1e-8 {
				t.Errorf("Azimuth = %.11f, want 345.86910228316", p.Azimuth)
			}
			if _, off := p.Time.Zone(); off != -6*3600 {
				t.Errorf("Time zone offset = %d, want %d", off, -6*3600)
			}
		})
	}
}

func TestSunPositionIgnoresLocation(t *testing.T) {
	wall := time.Date(2010, time.June, 21, 14, 0, 0, 0, time.UTC)
	tokyo := time.Date(2010, time.June, 21, 14, 0, 0, 0, time.FixedZone("JST", 9*3600))

	a, err := solarnoaa.SunPosition(boulder, wall, true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := solarnoaa.SunPosition(boulder, tokyo, true)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("positions differ for the same wall clock: %+v vs %+v", a, b)
	}
}

func TestDomainError(t *testing.T) {
	at := time.Date(2010, time.June, 21, 12, 0, 0, 0, boulder.Zone())
	var err error = &solarnoaa.DomainError{Quantity: "azimuth", Time: at}

	if !errors.Is(err, solarnoaa.ErrDomain) {
		t.Errorf("errors.Is(%v, ErrDomain) = false", err)
	}
	if errors.Is(err, solarnoaa.ErrNoRiseNoSet) {
		t.Errorf("DomainError matched ErrNoRiseNoSet")
	}
	want := "azimuth undefined at 2010-06-21T12:00:00-06:00: outside the domain of the solar formulas"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestInvalidCoordinates(t *testing.T) {
	date := time.Date(2010, time.June, 21, 0, 0, 0, 0, time.UTC)
	bad := []solarnoaa.Coordinates{
		{Lat: 91, Lon: 0, TZ: 0},
		{Lat: 0, Lon: -181, TZ: 0},
		{Lat: 0, Lon: 0, TZ: 15},
		{Lat: math.NaN(), Lon: 0, TZ: 0},
	}

	for _, c := range bad {
		if _, err := solarnoaa.SunPosition(c, date, true); !errors.Is(err, solarnoaa.ErrInvalidCoordinates) {
			t.Errorf("SunPosition(%+v) error = %v, want ErrInvalidCoordinates", c, err)
		}
		if _, err := solarnoaa.RiseSetFor(c, date); !errors.Is(err, solarnoaa.ErrInvalidCoordinates) {
			t.Errorf("RiseSetFor(%+v) error = %v, want ErrInvalidCoordinates", c, err)
		}
		if _, err := solarnoaa.ReportAt(c, date); !errors.Is(err, solarnoaa.ErrInvalidCoordinates) {
			t.Errorf("ReportAt(%+v) error = %v, want ErrInvalidCoordinates", c, err)
		}
		if _, err := solarnoaa.TwilightFor(c, date, solarnoaa.TwilightCivil); !errors.Is(err, solarnoaa.ErrInvalidCoordinates) {
			t.Errorf("TwilightFor(%+v) error = %v, want ErrInvalidCoordinates", c, err)
		}
	}
}

func TestInstantRange(t *testing.T) {
	start := time.Date(2024, time.February, 3, 1, 0, 0, 0, time.UTC)
	stop := time.Date(2024, time.February, 3, 3, 0, 0, 0, time.UTC)

	got := slices.Collect(solarnoaa.InstantRange(start, stop, time.Hour))
	want := []time.Time{start, start.Add(time.Hour)}
	if !slices.EqualFunc(got, want, time.Time.Equal) {
		t.Errorf("InstantRange() = %v, want %v", got, want)
	}

	// restartable
	again := slices.Collect(solarnoaa.InstantRange(start, stop, time.Hour))
	if len(again) != 2 {
		t.Errorf("second pass yielded %d instants, want 2", len(again))
	}

	if n := len(slices.Collect(solarnoaa.InstantRange(start, stop, 0))); n != 0 {
		t.Errorf("zero step yielded %d instants, want 0", n)
	}
	if n := len(slices.Collect(solarnoaa.InstantRange(stop, start, time.Hour))); n != 0 {
		t.Errorf("reversed range yielded %d instants, want 0", n)
	}
}

func TestSunPositions(t *testing.T) {
	start := time.Date(2010, time.June, 21, 0, 6, 0, 0, time.UTC)
	stop := start.Add(24 * time.Hour)
	seq := solarnoaa.SunPositions(boulder, solarnoaa.InstantRange(start, stop, time.Hour), true)

	var got []solarnoaa.Position
	for p, err := range seq {
		if err != nil {
			t.Fatalf("SunPositions() error = %v", err)
		}
		got = append(got, p)
	}

	if len(got) != 24 {
		t.Fatalf("got %d positions, want 24", len(got))
	}
	if math.Abs(got[0].Elevation-(-25.2334819743467)) > 1e-8 {
		t.Errorf("first elevation = %v, want -25.2334819743467", got[0].Elevation)
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Time.After(got[i-1].Time) {
			t.Fatalf("positions out of order at %d", i)
		}
	}

	// ranging again reproduces the same values
	i := 0
	for p := range seq {
		if p != got[i] {
			t.Fatalf("second pass differs at %d: %+v vs %+v", i, p, got[i])
		}
		i++
	}
}

func TestSunPositionsContinuesAfterError(t *testing.T) {
	offGlobe := solarnoaa.Coordinates{Lat: 95, Lon: 0, TZ: 0}
	start := time.Date(2010, time.June, 21, 0, 0, 0, 0, time.UTC)

	count, failures := 0, 0
	for _, err := range solarnoaa.SunPositions(offGlobe, solarnoaa.InstantRange(start, start.Add(3*time.Hour), time.Hour), true) {
		count++
		if errors.Is(err, solarnoaa.ErrInvalidCoordinates) {
			failures++
		}
	}
	if count != 3 || failures != 3 {
		t.Errorf("got %d elements with %d failures, want 3 and 3", count, failures)
	}
}

func TestSunPositionsParallel(t *testing.T) {
	start := time.Date(2023, time.September, 21, 0, 0, 0, 0, time.UTC)
	ts := slices.Collect(solarnoaa.InstantRange(start, start.Add(48*time.Hour), 7*time.Minute))

	got, err := solarnoaa.SunPositionsParallel(context.Background(), mtnView, ts, true, 4)
	if err != nil {
		t.Fatalf("SunPositionsParallel() error = %v", err)
	}
	if len(got) != len(ts) {
		t.Fatalf("got %d results, want %d", len(got), len(ts))
	}

	i := 0
	for p, err := range solarnoaa.SunPositions(mtnView, slices.Values(ts), true) {
		if got[i].Err != err || got[i].Position != p {
			t.Fatalf("result %d = %+v, sequential = %+v, %v", i, got[i], p, err)
		}
		i++
	}
}

func TestSunPositionsParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Date(2023, time.September, 21, 0, 0, 0, 0, time.UTC)
	ts := slices.Collect(solarnoaa.InstantRange(start, start.Add(24*time.Hour), time.Minute))

	if _, err := solarnoaa.SunPositionsParallel(ctx, mtnView, ts, true, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("SunPositionsParallel() error = %v, want context.Canceled", err)
	}
}

// cancelAfterCtx reports cancellation once Err has been called n times.
type cancelAfterCtx struct {
	context.Context
	n     int
	calls atomic.Int32
}

func (c *cancelAfterCtx) Err() error {
	if int(c.calls.Add(1)) > c.n {
		return context.Canceled
	}
	return nil
}

func TestSunPositionsParallelCancelledAfterDispatch(t *testing.T) {
	start := time.Date(2023, time.September, 21, 0, 0, 0, 0, time.UTC)
	ts := slices.Collect(solarnoaa.InstantRange(start, start.Add(time.Hour), time.Minute))
	ctx := &cancelAfterCtx{Context: context.Background(), n: len(ts)}

	got, err := solarnoaa.SunPositionsParallel(ctx, mtnView, ts, true, 2)
	if err != nil {
		t.Fatalf("SunPositionsParallel() error = %v, want nil", err)
	}
	if len(got) != len(ts) {
		t.Fatalf("got %d results, want %d", len(got), len(ts))
	}
	for i, r := range got {
		if r.Err != nil || r.Position.Time.Format(time.DateTime) != ts[i].Format(time.DateTime) {
			t.Errorf("result %d = %+v, want a position at %s", i, r, ts[i].Format(time.DateTime))
		}
	}
}

func TestSunPositionsParallelEmpty(t *testing.T) {
	got, err := solarnoaa.SunPositionsParallel(context.Background(), mtnView, nil, true, 0)
	if err != nil || len(got) != 0 {
		t.Errorf("SunPositionsParallel(nil) = %v, %v; want empty", got, err)
	}
}
