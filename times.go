package solarnoaa

import (
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/solarnoaa/internal/solver"
	"github.com/thurmanmarka/solarnoaa/internal/sun"
	"github.com/thurmanmarka/solarnoaa/internal/timeutil"
)

// TwilightKind identifies the type of twilight based on the Sun's altitude
// below the horizon.
type TwilightKind int

const (
	// TwilightCivil corresponds to the Sun's center at -6 degrees altitude.
	TwilightCivil TwilightKind = iota

	// TwilightNautical corresponds to the Sun's center at -12 degrees altitude.
	TwilightNautical

	// TwilightAstronomical corresponds to the Sun's center at -18 degrees altitude.
	TwilightAstronomical
)

func (k TwilightKind) String() string {
	switch k {
	case TwilightCivil:
		return "civil"
	case TwilightNautical:
		return "nautical"
	case TwilightAstronomical:
		return "astronomical"
	default:
		return fmt.Sprintf("TwilightKind(%d)", int(k))
	}
}

// Altitude returns the solar elevation in degrees that defines the twilight.
func (k TwilightKind) Altitude() (float64, error) {
	switch k {
	case TwilightCivil:
		return -6.0, nil
	case TwilightNautical:
		return -12.0, nil
	case TwilightAstronomical:
		return -18.0, nil
	default:
		return 0, fmt.Errorf("unknown TwilightKind: %d", k)
	}
}

// PhaseWindow represents a continuous time interval where the Sun's altitude
// stays within a particular range (e.g. golden hour or blue hour).
type PhaseWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DaylightPhases holds the morning and evening windows for a given phase
// (e.g. golden hour or blue hour).
type DaylightPhases struct {
	// Morning is the interval after dawn / sunrise.
	Morning PhaseWindow `json:"morning"`
	// Evening is the interval before dusk / sunset.
	Evening PhaseWindow `json:"evening"`

	// HasMorning / HasEvening indicate whether the corresponding window
	// exists on this date at this location (high latitudes can be weird).
	HasMorning bool `json:"has_morning"`
	HasEvening bool `json:"has_evening"`
}

// dayFacts evaluates the geometry at local midnight of date, which is the
// reference instant for all per-day quantities.
func dayFacts(c Coordinates, date time.Time) (TimeFacts, time.Time, error) {
	if err := c.Validate(); err != nil {
		return TimeFacts{}, time.Time{}, err
	}

	midnight := c.midnight(date)
	_, _, g := c.geometryAt(midnight)
	return sun.TimeFactsFor(c.Lat, c.Lon, c.TZ, g), midnight, nil
}

// Sunrise returns the time of sunrise at c on date's calendar day.
func Sunrise(c Coordinates, date time.Time) (time.Time, error) {
	rs, err := RiseSetFor(c, date)
	if err != nil {
		return time.Time{}, err
	}
	return rs.Rise, nil
}

// Sunset returns the time of sunset at c on date's calendar day.
func Sunset(c Coordinates, date time.Time) (time.Time, error) {
	rs, err := RiseSetFor(c, date)
	if err != nil {
		return time.Time{}, err
	}
	return rs.Set, nil
}

// RiseSetFor returns sunrise and sunset at c on date's calendar day. Only
// date's year, month and day are used. The returned times are in c.Zone().
// Polar day and polar night return ErrNoRiseNoSet.
func RiseSetFor(c Coordinates, date time.Time) (RiseSet, error) {
	f, midnight, err := dayFacts(c, date)
	if err != nil {
		return RiseSet{}, err
	}
	if math.IsNaN(f.HaSunrise) {
		return RiseSet{}, fmt.Errorf("%s at %.4f,%.4f: %w", midnight.Format(time.DateOnly), c.Lat, c.Lon, ErrNoRiseNoSet)
	}

	return RiseSet{
		Rise: timeutil.DayFractionToTime(f.Sunrise, midnight),
		Set:  timeutil.DayFractionToTime(f.Sunset, midnight),
	}, nil
}

// SolarNoon returns local solar noon at c on date's calendar day. Unlike
// sunrise it exists at every latitude.
func SolarNoon(c Coordinates, date time.Time) (time.Time, error) {
	f, midnight, err := dayFacts(c, date)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.DayFractionToTime(f.SolarNoon, midnight), nil
}

// DaylightHours calculates the duration of daylight (time between sunrise and
// sunset) at c on date's calendar day, in hours.
//
// If the sun does not rise or set on the given date (e.g., polar regions), it
// returns 0 and ErrNoRiseNoSet.
func DaylightHours(c Coordinates, date time.Time) (float64, error) {
	f, midnight, err := dayFacts(c, date)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f.DaylightMinutes) {
		return 0, fmt.Errorf("%s at %.4f,%.4f: %w", midnight.Format(time.DateOnly), c.Lat, c.Lon, ErrNoRiseNoSet)
	}
	return f.DaylightMinutes / 60, nil
}

// elevationFunc returns the geometric (unrefracted) NOAA elevation at c.
func elevationFunc(c Coordinates) solver.ElevationFunc {
	return func(t time.Time) float64 {
		local := c.local(t.In(c.Zone()))
		_, _, g := c.geometryAt(local)
		return sun.PositionAt(c.Lat, c.Lon, c.TZ, timeutil.DayFraction(local), g).Elevation
	}
}

// crossings finds the rising and setting crossings of altitude during the
// site-local calendar day of date.
func crossings(c Coordinates, date time.Time, altitude float64) (up, down time.Time, okUp, okDown bool) {
	w := solver.DayWindow(c.midnight(date))
	f := elevationFunc(c)

	up, okUp = w.Find(f, altitude, solver.Rising)
	down, okDown = w.Find(f, altitude, solver.Setting)
	return up, down, okUp, okDown
}

// TwilightFor computes twilight times (dawn and dusk) of the given kind for
// c on date's calendar day. The returned RiseSet uses Rise as the "dawn" time
// (upward crossing of the twilight altitude) and Set as the "dusk" time
// (downward crossing). A missing crossing is left as the zero time; if both
// are missing ErrNoRiseNoSet is returned.
func TwilightFor(c Coordinates, date time.Time, kind TwilightKind) (RiseSet, error) {
	if err := c.Validate(); err != nil {
		return RiseSet{}, err
	}
	alt, err := kind.Altitude()
	if err != nil {
		return RiseSet{}, err
	}

	dawn, dusk, okDawn, okDusk := crossings(c, date, alt)
	if !okDawn && !okDusk {
		return RiseSet{}, fmt.Errorf("%s twilight: %w", kind, ErrNoRiseNoSet)
	}

	var rs RiseSet
	if okDawn {
		rs.Rise = dawn
	}
	if okDusk {
		rs.Set = dusk
	}
	return rs, nil
}

// GoldenHourFor computes the golden hour intervals for c on date's calendar
// day. Golden hour is (approximately) defined as the period when the Sun's
// center altitude is between -4° and +6°.
func GoldenHourFor(c Coordinates, date time.Time) (DaylightPhases, error) {
	return phasesBetween(c, date, -4.0, 6.0)
}

// BlueHourFor computes the blue hour intervals for c on date's calendar day.
// Blue hour here is defined as the period when the Sun's center altitude is
// between -6° and -4°.
func BlueHourFor(c Coordinates, date time.Time) (DaylightPhases, error) {
	return phasesBetween(c, date, -6.0, -4.0)
}

// phasesBetween returns the morning window (Sun climbing from lowAlt to
// highAlt) and the evening window (descending from highAlt to lowAlt).
func phasesBetween(c Coordinates, date time.Time, lowAlt, highAlt float64) (DaylightPhases, error) {
	if err := c.Validate(); err != nil {
		return DaylightPhases{}, err
	}

	mLow, eLow, okMLow, okELow := crossings(c, date, lowAlt)
	mHigh, eHigh, okMHigh, okEHigh := crossings(c, date, highAlt)

	var phases DaylightPhases

	if okMLow && okMHigh && mHigh.After(mLow) {
		phases.Morning = PhaseWindow{Start: mLow, End: mHigh}
		phases.HasMorning = true
	}
	if okEHigh && okELow && eLow.After(eHigh) {
		phases.Evening = PhaseWindow{Start: eHigh, End: eLow}
		phases.HasEvening = true
	}

	if !phases.HasMorning && !phases.HasEvening {
		return DaylightPhases{}, ErrNoRiseNoSet
	}
	return phases, nil
}
