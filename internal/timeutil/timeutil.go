package timeutil

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// J2000 is the Julian day of the J2000.0 epoch (2000-01-01 12:00 UTC).
const J2000 = 2451545.0

// DaysPerCentury is the length of a Julian century in days.
const DaysPerCentury = 36525.0

// DefaultTimeLayout is used by DayFractionToString when no layout is given.
const DefaultTimeLayout = "15:04:05"

// defaultReference is the date day fractions are placed on when the caller
// does not supply one.
var defaultReference = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// -----------------------------
// Wall clock and day fractions
// -----------------------------

// WallClock returns t's calendar date and clock time re-labelled as UTC.
// The Location of t is discarded: callers pass naive local times and supply
// the site's offset separately.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayFraction returns the fraction of a 24-hour day elapsed at t's wall clock,
// in [0,1).
func DayFraction(t time.Time) float64 {
	seconds := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	return seconds / 86400.0
}

// DayFractionToTime adds fraction days to midnight of ref. A zero ref uses
// 2001-01-01 UTC. Fractions outside [0,1) roll into neighbouring days.
func DayFractionToTime(fraction float64, ref time.Time) time.Time {
	if ref.IsZero() {
		ref = defaultReference
	}
	d := time.Duration(math.Round(fraction * float64(24*time.Hour)))
	return Midnight(ref).Add(d)
}

// DayFractionToString formats DayFractionToTime(fraction, ref) with layout,
// or DefaultTimeLayout if layout is empty.
func DayFractionToString(fraction float64, ref time.Time, layout string) string {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return DayFractionToTime(fraction, ref).Format(layout)
}

// SiteZone returns a fixed zone for an offset in hours east of UTC.
// Fractional offsets such as 5.5 or -3.5 are kept to the second. The same
// offset always yields the same *time.Location, so times built on it compare
// equal with ==.
func SiteZone(tzHours float64) *time.Location {
	offset := int(math.Round(tzHours * 3600))
	if loc, ok := zones.Load(offset); ok {
		return loc.(*time.Location)
	}
	sign := '+'
	abs := offset
	if offset < 0 {
		sign = '-'
		abs = -offset
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, (abs%3600)/60)
	loc, _ := zones.LoadOrStore(offset, time.FixedZone(name, offset))
	return loc.(*time.Location)
}

var zones sync.Map // offset seconds -> *time.Location

// -----------------------------
// Julian day and century
// -----------------------------

// JulianDay returns the Julian day of t's wall clock shifted back by tzHours,
// i.e. the UT instant for a local time at a site tzHours east of UTC.
func JulianDay(t time.Time, tzHours float64) float64 {
	shift := time.Duration(math.Round(tzHours * float64(time.Hour)))
	return julian.TimeToJD(WallClock(t).Add(-shift))
}

// JulianCentury returns centuries since J2000.0 for a Julian day.
func JulianCentury(jd float64) float64 {
	return (jd - J2000) / DaysPerCentury
}

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

func TanD(deg float64) float64 {
	return math.Tan(Deg2Rad(deg))
}

// FlooredMod returns x mod m with the sign of m, so the result for a positive
// m is always in [0,m). math.Mod keeps the sign of x and can't be used
// directly.
func FlooredMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
		// a tiny negative remainder can round up to m itself
		if r == m {
			r = 0
		}
	}
	return r
}
