package httpapi

import (
	"time"

	"github.com/thurmanmarka/solarnoaa"
)

// ReportResponse is the body of GET /v1/sun/report. Values that are NaN for
// the site and instant, such as sunrise during polar night, are omitted.
type ReportResponse struct {
	Site          solarnoaa.Coordinates `json:"site"`
	Time          time.Time             `json:"time"`
	DayFraction   float64               `json:"day_fraction"`
	JulianDay     float64               `json:"julian_day"`
	JulianCentury float64               `json:"julian_century"`

	GeomMeanLong  *float64 `json:"geom_mean_long_deg"`
	GeomMeanAnom  *float64 `json:"geom_mean_anom_deg"`
	Eccentricity  *float64 `json:"eccent_earth_orbit"`
	EqOfCenter    *float64 `json:"sun_eq_of_ctr"`
	TrueLong      *float64 `json:"sun_true_long_deg"`
	TrueAnom      *float64 `json:"sun_true_anom_deg"`
	RadiusVector  *float64 `json:"sun_rad_vector_au"`
	AppLong       *float64 `json:"sun_app_long_deg"`
	MeanObliq     *float64 `json:"mean_obliq_ecliptic_deg"`
	ObliqCorr     *float64 `json:"obliq_corr_deg"`
	RtAscen       *float64 `json:"sun_rt_ascen_deg"`
	Declin        *float64 `json:"sun_declin_deg"`
	VarY          *float64 `json:"var_y"`
	EqOfTime      *float64 `json:"eq_of_time_minutes"`
	HaSunrise     *float64 `json:"ha_sunrise_deg,omitempty"`
	SolarNoon     *float64 `json:"solar_noon_lst"`
	SunriseFrac   *float64 `json:"sunrise_time_lst,omitempty"`
	SunsetFrac    *float64 `json:"sunset_time_lst,omitempty"`
	Daylight      *float64 `json:"sunlight_duration_minutes,omitempty"`
	TrueSolarTime *float64 `json:"true_solar_time_min"`
	HourAngle     *float64 `json:"hour_angle_deg"`
	Zenith        *float64 `json:"solar_zenith_angle_deg"`
	Elevation     *float64 `json:"solar_elevation_angle_deg"`
	Refraction    *float64 `json:"approx_atmospheric_refraction_deg"`
	Corrected     *float64 `json:"solar_elevation_corrected_deg"`
	Azimuth       *float64 `json:"solar_azimuth_angle_deg,omitempty"`

	SolarNoonTime time.Time  `json:"solar_noon"`
	Sunrise       *time.Time `json:"sunrise,omitempty"`
	Sunset        *time.Time `json:"sunset,omitempty"`
}

func newReportResponse(r solarnoaa.Report) ReportResponse {
	g, f, p := r.Geometry, r.Facts, r.Position
	return ReportResponse{
		Site:          r.Site,
		Time:          r.Time,
		DayFraction:   r.DayFraction,
		JulianDay:     r.JulianDay,
		JulianCentury: r.JulianCentury,

		GeomMeanLong:  num(g.GeomMeanLong),
		GeomMeanAnom:  num(g.GeomMeanAnom),
		Eccentricity:  num(g.Eccentricity),
		EqOfCenter:    num(g.EqOfCenter),
		TrueLong:      num(g.TrueLong),
		TrueAnom:      num(g.TrueAnom),
		RadiusVector:  num(g.RadiusVector),
		AppLong:       num(g.AppLong),
		MeanObliq:     num(g.MeanObliq),
		ObliqCorr:     num(g.ObliqCorr),
		RtAscen:       num(g.RtAscen),
		Declin:        num(g.Declin),
		VarY:          num(g.VarY),
		EqOfTime:      num(g.EqOfTime),
		HaSunrise:     num(f.HaSunrise),
		SolarNoon:     num(f.SolarNoon),
		SunriseFrac:   num(f.Sunrise),
		SunsetFrac:    num(f.Sunset),
		Daylight:      num(f.DaylightMinutes),
		TrueSolarTime: num(p.TrueSolarTime),
		HourAngle:     num(p.HourAngle),
		Zenith:        num(p.Zenith),
		Elevation:     num(p.Elevation),
		Refraction:    num(p.Refraction),
		Corrected:     num(p.CorrectedElevation),
		Azimuth:       num(p.Azimuth),

		SolarNoonTime: r.SolarNoon,
		Sunrise:       timePtr(r.Sunrise),
		Sunset:        timePtr(r.Sunset),
	}
}
