// Package solarnoaa computes solar position, sunrise, sunset and the
// equation of time using the formulas of the NOAA solar calculator
// spreadsheet.
//
// Every computation is a pure function of a site (latitude, longitude and a
// fixed UTC offset) and a local wall-clock time. Instants passed in are read
// for their calendar date and clock only; their Location is ignored, since
// the site's offset is always supplied separately through Coordinates.TZ.
// Instants returned carry a fixed zone built from Coordinates.TZ.
//
// Provided:
//   - Sun position (elevation, azimuth) via SunPosition and SunPositions
//   - Sunrise, sunset, solar noon and day length via RiseSetFor
//   - Civil, nautical and astronomical twilight via TwilightFor
//   - A full spreadsheet row via Report
package solarnoaa

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/solarnoaa/internal/sun"
	"github.com/thurmanmarka/solarnoaa/internal/timeutil"
)

// Coordinates represent an observer's location and standard time offset.
type Coordinates struct {
	Lat float64 `json:"latitude"`  // degrees, north positive
	Lon float64 `json:"longitude"` // degrees, east positive (west negative, e.g. -105 for 105°W)
	TZ  float64 `json:"timezone"`  // hours east of UTC (e.g. -6 for Mountain Daylight Time)
}

// Geometry is the Sun's geometric and apparent position for one Julian
// century: mean and true longitude and anomaly, obliquity, right ascension,
// declination and the equation of time.
type Geometry = sun.Geometry

// TimeFacts are the hour angle of sunrise, solar noon, sunrise and sunset
// (as fractions of the local day) and the day length in minutes.
type TimeFacts = sun.TimeFacts

// SolarPosition is the full set of observed-position quantities, from true
// solar time through refraction to azimuth.
type SolarPosition = sun.Position

// Position is the Sun's observed elevation and azimuth at an instant.
type Position struct {
	Time      time.Time `json:"time"`      // the evaluated instant, in the site zone
	Elevation float64   `json:"elevation"` // degrees above the horizon
	Azimuth   float64   `json:"azimuth"`   // degrees clockwise from north
}

// RiseSet holds rise and set times of the Sun on a given date.
type RiseSet struct {
	Rise time.Time `json:"rise"`
	Set  time.Time `json:"set"`
}

var (
	// ErrNoRiseNoSet is returned when the Sun does not rise or set on that date at that location.
	ErrNoRiseNoSet = errors.New("sun does not rise or set on this date")

	// ErrInvalidCoordinates is returned when a latitude, longitude or offset is out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrDomain is matched by every *DomainError.
	ErrDomain = errors.New("outside the domain of the solar formulas")
)

// DomainError reports a quantity that came out NaN because a trigonometric
// argument left its domain, e.g. an azimuth evaluated at a pole.
type DomainError struct {
	Quantity string
	Time     time.Time
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s undefined at %s: %s", e.Quantity, e.Time.Format(time.RFC3339), ErrDomain)
}

// Is reports whether target is ErrDomain.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// Validate checks that c lies on the globe and its offset is a real one.
// Every exported entry point calls it before computing anything.
func (c Coordinates) Validate() error {
	switch {
	case math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90:
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidCoordinates, c.Lat)
	case math.IsNaN(c.Lon) || c.Lon < -180 || c.Lon > 180:
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidCoordinates, c.Lon)
	case math.IsNaN(c.TZ) || c.TZ < -12 || c.TZ > 14:
		return fmt.Errorf("%w: timezone %v outside [-12, 14]", ErrInvalidCoordinates, c.TZ)
	}
	return nil
}

// Zone returns the fixed location used for instants returned for c.
func (c Coordinates) Zone() *time.Location {
	return timeutil.SiteZone(c.TZ)
}

// local re-labels t's wall clock in the site zone.
func (c Coordinates) local(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), c.Zone())
}

// midnight returns the start of date's calendar day in the site zone.
func (c Coordinates) midnight(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, c.Zone())
}

// geometryAt evaluates the Julian day, century and geometry for a wall clock.
func (c Coordinates) geometryAt(t time.Time) (jd, jc float64, g Geometry) {
	jd = timeutil.JulianDay(t, c.TZ)
	jc = timeutil.JulianCentury(jd)
	return jd, jc, sun.GeometryAt(jc)
}

// Report is one row of the NOAA spreadsheet: every intermediate quantity for
// a site at an instant.
//
// Rise, set and day length are computed for the instant itself, as the
// spreadsheet does, so they drift by a fraction of a second from Sunrise and
// Sunset, which evaluate the geometry at local midnight. Where the Sun does
// not rise or set the TimeFacts are NaN and Sunrise/Sunset are zero.
type Report struct {
	Site          Coordinates
	Time          time.Time
	DayFraction   float64
	JulianDay     float64
	JulianCentury float64
	Geometry      Geometry
	Facts         TimeFacts
	Position      SolarPosition
	SolarNoon     time.Time
	Sunrise       time.Time
	Sunset        time.Time
}

// HasRiseSet reports whether the Sun both rises and sets on the report's day.
func (r Report) HasRiseSet() bool {
	return !math.IsNaN(r.Facts.HaSunrise)
}

// ReportAt evaluates the whole formula chain for c at t.
func ReportAt(c Coordinates, t time.Time) (Report, error) {
	if err := c.Validate(); err != nil {
		return Report{}, err
	}

	local := c.local(t)
	jd, jc, g := c.geometryAt(local)
	frac := timeutil.DayFraction(local)
	day := c.midnight(local)

	r := Report{
		Site:          c,
		Time:          local,
		DayFraction:   frac,
		JulianDay:     jd,
		JulianCentury: jc,
		Geometry:      g,
		Facts:         sun.TimeFactsFor(c.Lat, c.Lon, c.TZ, g),
		Position:      sun.PositionAt(c.Lat, c.Lon, c.TZ, frac, g),
	}

	r.SolarNoon = timeutil.DayFractionToTime(r.Facts.SolarNoon, day)
	if r.HasRiseSet() {
		r.Sunrise = timeutil.DayFractionToTime(r.Facts.Sunrise, day)
		r.Sunset = timeutil.DayFractionToTime(r.Facts.Sunset, day)
	}

	return r, nil
}
