// Package sun implements the NOAA solar calculator spreadsheet formulas.
//
// Every function takes and returns plain float64 values in degrees unless
// stated otherwise. Degrees are converted to radians only at the
// trigonometric call. No function validates its input: values outside the
// physical domain produce NaN or garbage, exactly as the spreadsheet does.
package sun

import (
	"math"

	"github.com/thurmanmarka/solarnoaa/internal/timeutil"
)

// Geometry holds the Sun's geometric and apparent quantities for a single
// Julian century.
type Geometry struct {
	JulianCentury float64

	GeomMeanLong float64 // degrees, [0,360)
	GeomMeanAnom float64 // degrees, not range reduced
	Eccentricity float64
	EqOfCenter   float64 // degrees
	TrueLong     float64 // degrees
	TrueAnom     float64 // degrees
	RadiusVector float64 // AU
	AppLong      float64 // degrees
	MeanObliq    float64 // degrees
	ObliqCorr    float64 // degrees
	RtAscen      float64 // degrees, (-180,180]
	Declin       float64 // degrees
	VarY         float64
	EqOfTime     float64 // minutes of time
}

// GeometryAt evaluates the full geometry chain for a Julian century.
func GeometryAt(jc float64) Geometry {
	g := Geometry{JulianCentury: jc}

	g.GeomMeanLong = GeomMeanLong(jc)
	g.GeomMeanAnom = GeomMeanAnom(jc)
	g.Eccentricity = Eccentricity(jc)
	g.EqOfCenter = EqOfCenter(jc, g.GeomMeanAnom)
	g.TrueLong = TrueLong(g.GeomMeanLong, g.EqOfCenter)
	g.TrueAnom = TrueAnom(g.GeomMeanAnom, g.EqOfCenter)
	g.RadiusVector = RadiusVector(g.Eccentricity, g.TrueAnom)
	g.AppLong = AppLong(jc, g.TrueLong)
	g.MeanObliq = MeanObliq(jc)
	g.ObliqCorr = ObliqCorr(jc, g.MeanObliq)
	g.RtAscen = RtAscen(g.AppLong, g.ObliqCorr)
	g.Declin = Declin(g.AppLong, g.ObliqCorr)
	g.VarY = VarY(g.ObliqCorr)
	g.EqOfTime = EqOfTime(g.GeomMeanLong, g.GeomMeanAnom, g.Eccentricity, g.VarY)

	return g
}

// GeomMeanLong is the geometric mean longitude of the Sun, reduced to [0,360).
func GeomMeanLong(jc float64) float64 {
	return timeutil.FlooredMod(280.46646+jc*(36000.76983+jc*0.0003032), 360)
}

// GeomMeanAnom is the geometric mean anomaly of the Sun. It is deliberately
// left unreduced; only its sine and cosine are ever used.
func GeomMeanAnom(jc float64) float64 {
	return 357.52911 + jc*(35999.05029-0.0001537*jc)
}

// Eccentricity of Earth's orbit (unitless).
func Eccentricity(jc float64) float64 {
	return 0.016708634 - jc*(0.000042037+0.0000001267*jc)
}

// EqOfCenter is the Sun's equation of the center for a mean anomaly.
func EqOfCenter(jc, meanAnom float64) float64 {
	return timeutil.SinD(meanAnom)*(1.914602-jc*(0.004817+0.000014*jc)) +
		timeutil.SinD(2*meanAnom)*(0.019993-0.000101*jc) +
		timeutil.SinD(3*meanAnom)*0.000289
}

// TrueLong is the Sun's true longitude.
func TrueLong(meanLong, eqOfCenter float64) float64 {
	return meanLong + eqOfCenter
}

// TrueAnom is the Sun's true anomaly.
func TrueAnom(meanAnom, eqOfCenter float64) float64 {
	return meanAnom + eqOfCenter
}

// RadiusVector is the Earth-Sun distance in AU.
func RadiusVector(eccentricity, trueAnom float64) float64 {
	return (1.000001018 * (1 - eccentricity*eccentricity)) / (1 + eccentricity*timeutil.CosD(trueAnom))
}

// omega is the longitude of the Moon's ascending node used by the nutation
// terms in AppLong and ObliqCorr.
func omega(jc float64) float64 {
	return 125.04 - 1934.136*jc
}

// AppLong is the Sun's apparent longitude (nutation and aberration corrected).
func AppLong(jc, trueLong float64) float64 {
	return trueLong - 0.00569 - 0.00478*timeutil.SinD(omega(jc))
}

// MeanObliq is the mean obliquity of the ecliptic.
func MeanObliq(jc float64) float64 {
	return 23 + (26+(21.448-jc*(46.815+jc*(0.00059-jc*0.001813)))/60)/60
}

// ObliqCorr is the obliquity corrected for nutation.
func ObliqCorr(jc, meanObliq float64) float64 {
	return meanObliq + 0.00256*timeutil.CosD(omega(jc))
}

// RtAscen is the Sun's right ascension. The two-argument arctangent keeps the
// quadrant, matching the spreadsheet's ATAN2.
func RtAscen(appLong, obliqCorr float64) float64 {
	y := timeutil.CosD(obliqCorr) * timeutil.SinD(appLong)
	x := timeutil.CosD(appLong)
	return timeutil.Rad2Deg(math.Atan2(y, x))
}

// Declin is the Sun's declination.
func Declin(appLong, obliqCorr float64) float64 {
	return timeutil.Rad2Deg(math.Asin(timeutil.SinD(obliqCorr) * timeutil.SinD(appLong)))
}

// VarY is the spreadsheet's "var y" term, tan²(ε/2).
func VarY(obliqCorr float64) float64 {
	t := timeutil.TanD(obliqCorr / 2)
	return t * t
}

// EqOfTime is the equation of time in minutes.
func EqOfTime(meanLong, meanAnom, eccentricity, varY float64) float64 {
	l := timeutil.Deg2Rad(meanLong)
	m := timeutil.Deg2Rad(meanAnom)
	e := eccentricity
	y := varY

	return 4 * timeutil.Rad2Deg(
		y*math.Sin(2*l)-
			2*e*math.Sin(m)+
			4*e*y*math.Sin(m)*math.Cos(2*l)-
			0.5*y*y*math.Sin(4*l)-
			1.25*e*e*math.Sin(2*m),
	)
}
