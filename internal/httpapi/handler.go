package httpapi

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thurmanmarka/solarnoaa"
)

// maxSeriesPoints caps a single /series response.
const maxSeriesPoints = 10000

// wall-clock layouts accepted for time parameters; any zone is ignored
var timeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339Nano,
}

// Handler handles HTTP requests for solar computations.
type Handler struct {
	defaultSite solarnoaa.Coordinates
}

// NewHandler creates a handler. defaultSite fills in lat, lon or tz when a
// request omits them.
func NewHandler(defaultSite solarnoaa.Coordinates) *Handler {
	return &Handler{defaultSite: defaultSite}
}

// PositionResponse is the body of GET /v1/sun/position.
type PositionResponse struct {
	Site                  solarnoaa.Coordinates `json:"site"`
	AtmosphericCorrection bool                  `json:"atmospheric_correction"`
	solarnoaa.Position
}

// TwilightTimes are the dawn and dusk of one twilight kind. Either may be
// missing at high latitudes.
type TwilightTimes struct {
	Dawn *time.Time `json:"dawn,omitempty"`
	Dusk *time.Time `json:"dusk,omitempty"`
}

// TimesResponse is the body of GET /v1/sun/times.
type TimesResponse struct {
	Site          solarnoaa.Coordinates    `json:"site"`
	Date          string                   `json:"date"`
	Sunrise       time.Time                `json:"sunrise"`
	SolarNoon     time.Time                `json:"solar_noon"`
	Sunset        time.Time                `json:"sunset"`
	DaylightHours float64                  `json:"daylight_hours"`
	Twilight      map[string]TwilightTimes `json:"twilight"`
}

// SeriesPoint is one element of a series; failed instants carry Error.
type SeriesPoint struct {
	Time      time.Time `json:"time"`
	Elevation *float64  `json:"elevation,omitempty"`
	Azimuth   *float64  `json:"azimuth,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// SeriesResponse is the body of GET /v1/sun/series.
type SeriesResponse struct {
	Site                  solarnoaa.Coordinates `json:"site"`
	AtmosphericCorrection bool                  `json:"atmospheric_correction"`
	Step                  string                `json:"step"`
	Count                 int                   `json:"count"`
	Positions             []SeriesPoint         `json:"positions"`
}

// GetPosition handles GET /v1/sun/position.
func (h *Handler) GetPosition(c *gin.Context) {
	site, err := h.site(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	t, err := parseTime(c.Query("time"), "time")
	if err != nil {
		badRequest(c, err)
		return
	}
	atm, err := parseBool(c.DefaultQuery("atm", "true"))
	if err != nil {
		badRequest(c, err)
		return
	}

	p, err := solarnoaa.SunPosition(site, t, atm)
	countComputation("position", err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PositionResponse{Site: site, AtmosphericCorrection: atm, Position: p})
}

// GetTimes handles GET /v1/sun/times.
func (h *Handler) GetTimes(c *gin.Context) {
	site, err := h.site(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	dateStr := c.Query("date")
	if dateStr == "" {
		badRequest(c, errors.New("date parameter is required"))
		return
	}
	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		badRequest(c, fmt.Errorf("invalid date (expected YYYY-MM-DD): %w", err))
		return
	}

	rs, err := solarnoaa.RiseSetFor(site, date)
	countComputation("times", err)
	if err != nil {
		writeError(c, err)
		return
	}
	noon, err := solarnoaa.SolarNoon(site, date)
	if err != nil {
		writeError(c, err)
		return
	}
	hours, err := solarnoaa.DaylightHours(site, date)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := TimesResponse{
		Site:          site,
		Date:          date.Format(time.DateOnly),
		Sunrise:       rs.Rise,
		SolarNoon:     noon,
		Sunset:        rs.Set,
		DaylightHours: hours,
		Twilight:      make(map[string]TwilightTimes),
	}
	for _, kind := range []solarnoaa.TwilightKind{
		solarnoaa.TwilightCivil,
		solarnoaa.TwilightNautical,
		solarnoaa.TwilightAstronomical,
	} {
		tw, err := solarnoaa.TwilightFor(site, date, kind)
		if err != nil {
			// the Sun never reaches this depth; leave the entry empty
			resp.Twilight[kind.String()] = TwilightTimes{}
			continue
		}
		resp.Twilight[kind.String()] = TwilightTimes{Dawn: timePtr(tw.Rise), Dusk: timePtr(tw.Set)}
	}

	c.JSON(http.StatusOK, resp)
}

// GetSeries handles GET /v1/sun/series.
func (h *Handler) GetSeries(c *gin.Context) {
	site, err := h.site(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	start, err := parseTime(c.Query("start"), "start")
	if err != nil {
		badRequest(c, err)
		return
	}
	end, err := parseTime(c.Query("end"), "end")
	if err != nil {
		badRequest(c, err)
		return
	}
	step, err := time.ParseDuration(c.DefaultQuery("step", "15m"))
	if err != nil {
		badRequest(c, fmt.Errorf("invalid step: %w", err))
		return
	}
	if step <= 0 {
		badRequest(c, errors.New("step must be positive"))
		return
	}
	if n := end.Sub(start) / step; n > maxSeriesPoints {
		badRequest(c, fmt.Errorf("series of %d points exceeds the limit of %d", n, maxSeriesPoints))
		return
	}
	atm, err := parseBool(c.DefaultQuery("atm", "true"))
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := site.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	resp := SeriesResponse{
		Site:                  site,
		AtmosphericCorrection: atm,
		Step:                  step.String(),
		Positions:             []SeriesPoint{},
	}
	instants := solarnoaa.InstantRange(start, end, step)
	for p, err := range solarnoaa.SunPositions(site, instants, atm) {
		if err != nil {
			var de *solarnoaa.DomainError
			pt := SeriesPoint{Error: err.Error()}
			if errors.As(err, &de) {
				pt.Time = de.Time
			}
			resp.Positions = append(resp.Positions, pt)
			continue
		}
		resp.Positions = append(resp.Positions, SeriesPoint{
			Time:      p.Time,
			Elevation: num(p.Elevation),
			Azimuth:   num(p.Azimuth),
		})
	}
	resp.Count = len(resp.Positions)
	countComputation("series", nil)

	c.JSON(http.StatusOK, resp)
}

// GetReport handles GET /v1/sun/report.
func (h *Handler) GetReport(c *gin.Context) {
	site, err := h.site(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	t, err := parseTime(c.Query("time"), "time")
	if err != nil {
		badRequest(c, err)
		return
	}

	r, err := solarnoaa.ReportAt(site, t)
	countComputation("report", err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newReportResponse(r))
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// site reads lat, lon and tz, each falling back to the default site.
func (h *Handler) site(c *gin.Context) (solarnoaa.Coordinates, error) {
	s := h.defaultSite
	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"lat", &s.Lat},
		{"lon", &s.Lon},
		{"tz", &s.TZ},
	} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return s, fmt.Errorf("invalid %s: %w", p.key, err)
		}
		*p.dst = v
	}
	return s, nil
}

func parseTime(s, name string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s parameter is required", name)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q (expected YYYY-MM-DDTHH:MM[:SS])", name, s)
}

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid atm: %w", err)
	}
	return b, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// writeError maps library errors onto status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, solarnoaa.ErrInvalidCoordinates):
		status = http.StatusBadRequest
	case errors.Is(err, solarnoaa.ErrNoRiseNoSet), errors.Is(err, solarnoaa.ErrDomain):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// num returns nil for NaN, which JSON cannot carry.
func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
