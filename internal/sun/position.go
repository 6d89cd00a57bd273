package sun

import (
	"math"

	"github.com/thurmanmarka/solarnoaa/internal/timeutil"
)

// StandardZenith is the commonly used zenith angle (in degrees) for sunrise/sunset:
// 90°50' ≈ 90.833°, accounting for refraction + Sun's apparent radius.
const StandardZenith = 90.833

const minutesPerDay = 1440.0

// TimeFacts are the time-of-day quantities for a site on a date. Times are
// fractions of the local day.
type TimeFacts struct {
	HaSunrise       float64 // degrees
	SolarNoon       float64
	Sunrise         float64
	Sunset          float64
	DaylightMinutes float64
}

// Position is the Sun's observed position at one instant.
type Position struct {
	TrueSolarTime      float64 // minutes
	HourAngle          float64 // degrees
	Zenith             float64 // degrees
	Elevation          float64 // degrees, geometric
	Refraction         float64 // degrees
	CorrectedElevation float64 // degrees
	Azimuth            float64 // degrees clockwise from north, [0,360)
}

// TimeFactsFor derives sunrise, solar noon, sunset and day length for a site
// from the geometry of the day. A Sun that never rises or never sets leaves
// HaSunrise, and everything derived from it, NaN.
func TimeFactsFor(lat, lon, tz float64, g Geometry) TimeFacts {
	ha := HaSunrise(lat, g.Declin)
	noon := SolarNoon(lon, tz, g.EqOfTime)

	return TimeFacts{
		HaSunrise:       ha,
		SolarNoon:       noon,
		Sunrise:         SunriseTime(ha, noon),
		Sunset:          SunsetTime(ha, noon),
		DaylightMinutes: DaylightMinutes(ha),
	}
}

// PositionAt evaluates the Sun's position for a site at a local day fraction.
func PositionAt(lat, lon, tz, dayFraction float64, g Geometry) Position {
	var p Position

	p.TrueSolarTime = TrueSolarTime(dayFraction, g.EqOfTime, lon, tz)
	p.HourAngle = HourAngle(p.TrueSolarTime)
	p.Zenith = Zenith(lat, g.Declin, p.HourAngle)
	p.Elevation = Elevation(p.Zenith)
	p.Refraction = AtmosphericRefraction(p.Elevation)
	p.CorrectedElevation = CorrectedElevation(p.Elevation, p.Refraction)
	p.Azimuth = Azimuth(lat, p.HourAngle, p.Zenith, g.Declin)

	return p
}

// HaSunrise is the hour angle of sunrise in degrees. Where the Sun stays
// above or below the horizon all day the acos argument leaves [-1,1] and the
// result is NaN.
func HaSunrise(lat, declin float64) float64 {
	return HaForZenith(lat, declin, StandardZenith)
}

// HaForZenith is HaSunrise for an arbitrary zenith angle.
func HaForZenith(lat, declin, zenith float64) float64 {
	arg := timeutil.CosD(zenith)/(timeutil.CosD(lat)*timeutil.CosD(declin)) -
		timeutil.TanD(lat)*timeutil.TanD(declin)
	return timeutil.Rad2Deg(math.Acos(arg))
}

// SolarNoon is local solar noon as a day fraction.
func SolarNoon(lon, tz, eqOfTime float64) float64 {
	return (720 - 4*lon - eqOfTime + tz*60) / minutesPerDay
}

// SunriseTime is local sunrise as a day fraction.
func SunriseTime(haSunrise, solarNoon float64) float64 {
	return solarNoon - haSunrise*4/minutesPerDay
}

// SunsetTime is local sunset as a day fraction.
func SunsetTime(haSunrise, solarNoon float64) float64 {
	return solarNoon + haSunrise*4/minutesPerDay
}

// DaylightMinutes is the sunlight duration in minutes.
func DaylightMinutes(haSunrise float64) float64 {
	return 8 * haSunrise
}

// TrueSolarTime is the true solar time in minutes, in [0,1440).
func TrueSolarTime(dayFraction, eqOfTime, lon, tz float64) float64 {
	return timeutil.FlooredMod(dayFraction*minutesPerDay+eqOfTime+4*lon-60*tz, minutesPerDay)
}

// HourAngle converts true solar time to an hour angle in degrees. The branch
// is taken on the sign of trueSolarTime/4.
func HourAngle(trueSolarTime float64) float64 {
	q := trueSolarTime / 4
	if q < 0 {
		return q + 180
	}
	return q - 180
}

// Zenith is the solar zenith angle.
func Zenith(lat, declin, hourAngle float64) float64 {
	arg := timeutil.SinD(lat)*timeutil.SinD(declin) +
		timeutil.CosD(lat)*timeutil.CosD(declin)*timeutil.CosD(hourAngle)
	return timeutil.Rad2Deg(math.Acos(arg))
}

// Elevation is the geometric solar elevation, uncorrected for refraction.
func Elevation(zenith float64) float64 {
	return 90 - zenith
}

// AtmosphericRefraction is the approximate refraction correction in degrees
// for a geometric elevation.
func AtmosphericRefraction(elevation float64) float64 {
	var arcsec float64

	switch {
	case elevation > 85:
		arcsec = 0
	case elevation > 5:
		t := timeutil.TanD(elevation)
		arcsec = 58.1/t - 0.07/math.Pow(t, 3) + 0.000086/math.Pow(t, 5)
	case elevation > -0.575:
		e := elevation
		arcsec = 1735 + e*(-518.2+e*(103.4+e*(-12.79+e*0.711)))
	default:
		arcsec = -20.772 / timeutil.TanD(elevation)
	}

	return arcsec / 3600
}

// CorrectedElevation is the elevation including refraction.
func CorrectedElevation(elevation, refraction float64) float64 {
	return elevation + refraction
}

// Azimuth is the solar azimuth in degrees clockwise from north.
func Azimuth(lat, hourAngle, zenith, declin float64) float64 {
	arg := (timeutil.SinD(lat)*timeutil.CosD(zenith) - timeutil.SinD(declin)) /
		(timeutil.CosD(lat) * timeutil.SinD(zenith))
	base := timeutil.Rad2Deg(math.Acos(arg))

	if hourAngle > 0 {
		return timeutil.FlooredMod(base+180, 360)
	}
	return timeutil.FlooredMod(540-base, 360)
}
