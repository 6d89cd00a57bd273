package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/thurmanmarka/solarnoaa"
	"github.com/thurmanmarka/solarnoaa/internal/config"
)

const appName = "solarnoaa"

// Set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	log.SetFlags(0)

	// No subcommand, or a flag first: sunrise/sunset for a date.
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		runTimes(os.Args[1:])
		return
	}

	switch os.Args[1] {
	case "times":
		runTimes(os.Args[2:])
	case "position":
		runPosition(os.Args[2:])
	case "series":
		runSeries(os.Args[2:])
	case "report":
		runReport(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `solarnoaa – NOAA solar calculator

Usage:
  solarnoaa [times] [flags]    # sunrise, solar noon, sunset and twilight for a date
  solarnoaa position [flags]   # Sun elevation and azimuth at a local time
  solarnoaa series [flags]     # positions over a time range, as CSV
  solarnoaa report [flags]     # every intermediate NOAA quantity at a local time
  solarnoaa serve [flags]      # HTTP API
  solarnoaa watch [flags]      # publish sun events and positions over MQTT

Site flags default to SITE_LAT, SITE_LON and SITE_TZ. Run a subcommand with -h
for its flags.
`)
}

// loadConfig reads the environment, exiting on a malformed value.
func loadConfig() config.Config {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	return cfg
}

// siteFlags registers -lat, -lon and -tz on fs with defaults from cfg.
func siteFlags(fs *flag.FlagSet, cfg config.Config) func() solarnoaa.Coordinates {
	lat := fs.Float64("lat", cfg.SiteLat, "latitude in degrees (north positive)")
	lon := fs.Float64("lon", cfg.SiteLon, "longitude in degrees (east positive, west negative)")
	tz := fs.Float64("tz", cfg.SiteTZ, "UTC offset in hours (e.g. -6)")

	return func() solarnoaa.Coordinates {
		c := solarnoaa.Coordinates{Lat: *lat, Lon: *lon, TZ: *tz}
		if c.Lat == 0 && c.Lon == 0 {
			log.Println("warning: lat=0 lon=0 (Gulf of Guinea). Use -lat and -lon to set a real location.")
		}
		if err := c.Validate(); err != nil {
			log.Fatal(err)
		}
		return c
	}
}

func parseFlags(fs *flag.FlagSet, args []string, usageLine string) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s\n\nFlags:\n", usageLine)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}
}

// parseDate reads YYYY-MM-DD; empty means today at the site.
func parseDate(s string, site solarnoaa.Coordinates) time.Time {
	if s == "" {
		now := time.Now().In(site.Zone())
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, site.Zone())
	}
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		log.Fatalf("invalid -date %q: %v", s, err)
	}
	return date
}

// parseLocal reads a local wall-clock time; empty means now at the site.
func parseLocal(s, name string, site solarnoaa.Coordinates) time.Time {
	if s == "" {
		return time.Now().In(site.Zone())
	}
	layouts := []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		time.RFC3339,
		time.DateOnly,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	log.Fatalf("could not parse -%s %q (expected YYYY-MM-DDTHH:MM[:SS])", name, s)
	return time.Time{}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("failed to encode JSON: %v", err)
	}
}

// ---------------------
// times (default) mode
// ---------------------

type timesOutput struct {
	Site          solarnoaa.Coordinates        `json:"site"`
	Date          string                       `json:"date"` // YYYY-MM-DD
	Sunrise       *time.Time                   `json:"sunrise,omitempty"`
	SolarNoon     time.Time                    `json:"solar_noon"`
	Sunset        *time.Time                   `json:"sunset,omitempty"`
	DaylightHours *float64                     `json:"daylight_hours,omitempty"`
	Twilight      map[string]solarnoaa.RiseSet `json:"twilight,omitempty"`
	GoldenHour    *solarnoaa.DaylightPhases    `json:"golden_hour,omitempty"`
	BlueHour      *solarnoaa.DaylightPhases    `json:"blue_hour,omitempty"`
}

func runTimes(args []string) {
	cfg := loadConfig()
	fs := flag.NewFlagSet("times", flag.ExitOnError)
	site := siteFlags(fs, cfg)
	dateS := fs.String("date", "", "date in YYYY-MM-DD (optional, defaults to today at the site)")
	twilight := fs.Bool("twilight", false, "include civil, nautical and astronomical twilight")
	phases := fs.Bool("phases", false, "include golden and blue hour")
	jsonOut := fs.Bool("json", false, "output result as JSON")
	parseFlags(fs, args, "solarnoaa [times] [flags]")

	c := site()
	date := parseDate(*dateS, c)

	out := timesOutput{Site: c, Date: date.Format(time.DateOnly)}

	noon, err := solarnoaa.SolarNoon(c, date)
	if err != nil {
		log.Fatalf("error computing solar noon: %v", err)
	}
	out.SolarNoon = noon

	rs, err := solarnoaa.RiseSetFor(c, date)
	switch {
	case errors.Is(err, solarnoaa.ErrNoRiseNoSet):
		log.Printf("note: %v", err)
	case err != nil:
		log.Fatalf("error computing rise/set: %v", err)
	default:
		out.Sunrise, out.Sunset = &rs.Rise, &rs.Set
		if hours, err := solarnoaa.DaylightHours(c, date); err == nil {
			out.DaylightHours = &hours
		}
	}

	if *twilight {
		out.Twilight = make(map[string]solarnoaa.RiseSet)
		for _, kind := range []solarnoaa.TwilightKind{
			solarnoaa.TwilightCivil,
			solarnoaa.TwilightNautical,
			solarnoaa.TwilightAstronomical,
		} {
			if tw, err := solarnoaa.TwilightFor(c, date, kind); err == nil {
				out.Twilight[kind.String()] = tw
			}
		}
	}
	if *phases {
		if p, err := solarnoaa.GoldenHourFor(c, date); err == nil {
			out.GoldenHour = &p
		}
		if p, err := solarnoaa.BlueHourFor(c, date); err == nil {
			out.BlueHour = &p
		}
	}

	if *jsonOut {
		printJSON(out)
		return
	}
	printTimes(out)
}

func printTimes(out timesOutput) {
	clock := func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return "--:--:--"
		}
		return t.Format(time.TimeOnly)
	}

	fmt.Printf("Sun for lat=%.6f lon=%.6f tz=%+g\n", out.Site.Lat, out.Site.Lon, out.Site.TZ)
	fmt.Printf("Date: %s (%s)\n\n", out.Date, out.Site.Zone())

	fmt.Printf("Sunrise:    %s\n", clock(out.Sunrise))
	fmt.Printf("Solar noon: %s\n", clock(&out.SolarNoon))
	fmt.Printf("Sunset:     %s\n", clock(out.Sunset))
	if out.DaylightHours != nil {
		fmt.Printf("Daylight:   %.2f hours\n", *out.DaylightHours)
	}

	for _, kind := range []string{"civil", "nautical", "astronomical"} {
		tw, ok := out.Twilight[kind]
		if !ok {
			continue
		}
		fmt.Printf("%-13s dawn %s  dusk %s\n", kind+":", clock(&tw.Rise), clock(&tw.Set))
	}
	for name, p := range map[string]*solarnoaa.DaylightPhases{"Golden hour": out.GoldenHour, "Blue hour": out.BlueHour} {
		if p == nil {
			continue
		}
		fmt.Printf("%s: morning %s-%s  evening %s-%s\n", name,
			clock(&p.Morning.Start), clock(&p.Morning.End), clock(&p.Evening.Start), clock(&p.Evening.End))
	}
}

// ---------------------
// position subcommand
// ---------------------

func runPosition(args []string) {
	cfg := loadConfig()
	fs := flag.NewFlagSet("position", flag.ExitOnError)
	site := siteFlags(fs, cfg)
	timeS := fs.String("time", "", "local time YYYY-MM-DDTHH:MM[:SS] (optional, defaults to now at the site)")
	noAtm := fs.Bool("geometric", false, "skip the atmospheric refraction correction")
	jsonOut := fs.Bool("json", false, "output result as JSON")
	parseFlags(fs, args, "solarnoaa position [flags]")

	c := site()
	t := parseLocal(*timeS, "time", c)

	p, err := solarnoaa.SunPosition(c, t, !*noAtm)
	if err != nil {
		log.Fatalf("error computing position: %v", err)
	}

	if *jsonOut {
		printJSON(p)
		return
	}
	fmt.Printf("Sun at %s for lat=%.6f lon=%.6f\n", p.Time.Format(time.RFC3339), c.Lat, c.Lon)
	fmt.Printf("  Elevation : %.4f°\n", p.Elevation)
	fmt.Printf("  Azimuth   : %.4f°\n", p.Azimuth)
}

// ---------------------
// series subcommand
// ---------------------

func runSeries(args []string) {
	cfg := loadConfig()
	fs := flag.NewFlagSet("series", flag.ExitOnError)
	site := siteFlags(fs, cfg)
	startS := fs.String("start", "", "first local time (required)")
	endS := fs.String("end", "", "local time to stop before (required)")
	step := fs.Duration("step", 15*time.Minute, "spacing between samples")
	noAtm := fs.Bool("geometric", false, "skip the atmospheric refraction correction")
	parseFlags(fs, args, "solarnoaa series -start T -end T [flags]")

	if *startS == "" || *endS == "" {
		log.Fatal("-start and -end are required")
	}
	if *step <= 0 {
		log.Fatal("-step must be positive")
	}

	c := site()
	start := parseLocal(*startS, "start", c)
	end := parseLocal(*endS, "end", c)

	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"time", "elevation_deg", "azimuth_deg", "error"})

	failures := 0
	for p, err := range solarnoaa.SunPositions(c, solarnoaa.InstantRange(start, end, *step), !*noAtm) {
		if err != nil {
			failures++
			_ = w.Write([]string{"", "", "", err.Error()})
			continue
		}
		_ = w.Write([]string{
			p.Time.Format("2006-01-02T15:04:05"),
			strconv.FormatFloat(p.Elevation, 'f', 6, 64),
			strconv.FormatFloat(p.Azimuth, 'f', 6, 64),
			"",
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("write csv: %v", err)
	}
	if failures > 0 {
		log.Printf("%d samples failed", failures)
	}
}

// ---------------------
// report subcommand
// ---------------------

func runReport(args []string) {
	cfg := loadConfig()
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	site := siteFlags(fs, cfg)
	timeS := fs.String("time", "", "local time YYYY-MM-DDTHH:MM[:SS] (optional, defaults to now at the site)")
	parseFlags(fs, args, "solarnoaa report [flags]")

	c := site()
	r, err := solarnoaa.ReportAt(c, parseLocal(*timeS, "time", c))
	if err != nil {
		log.Fatalf("error computing report: %v", err)
	}

	g, f, p := r.Geometry, r.Facts, r.Position
	rows := []struct {
		name  string
		value float64
	}{
		{"Julian Day", r.JulianDay},
		{"Julian Century", r.JulianCentury},
		{"Geom Mean Long Sun (deg)", g.GeomMeanLong},
		{"Geom Mean Anom Sun (deg)", g.GeomMeanAnom},
		{"Eccent Earth Orbit", g.Eccentricity},
		{"Sun Eq of Ctr", g.EqOfCenter},
		{"Sun True Long (deg)", g.TrueLong},
		{"Sun True Anom (deg)", g.TrueAnom},
		{"Sun Rad Vector (AUs)", g.RadiusVector},
		{"Sun App Long (deg)", g.AppLong},
		{"Mean Obliq Ecliptic (deg)", g.MeanObliq},
		{"Obliq Corr (deg)", g.ObliqCorr},
		{"Sun Rt Ascen (deg)", g.RtAscen},
		{"Sun Declin (deg)", g.Declin},
		{"var y", g.VarY},
		{"Eq of Time (minutes)", g.EqOfTime},
		{"HA Sunrise (deg)", f.HaSunrise},
		{"Solar Noon (LST)", f.SolarNoon},
		{"Sunrise Time (LST)", f.Sunrise},
		{"Sunset Time (LST)", f.Sunset},
		{"Sunlight Duration (minutes)", f.DaylightMinutes},
		{"True Solar Time (min)", p.TrueSolarTime},
		{"Hour Angle (deg)", p.HourAngle},
		{"Solar Zenith Angle (deg)", p.Zenith},
		{"Solar Elevation Angle (deg)", p.Elevation},
		{"Approx Atmospheric Refraction (deg)", p.Refraction},
		{"Solar Elevation corrected for atm refraction (deg)", p.CorrectedElevation},
		{"Solar Azimuth Angle (deg cw from N)", p.Azimuth},
	}

	fmt.Printf("NOAA report for lat=%.6f lon=%.6f at %s\n\n", c.Lat, c.Lon, r.Time.Format(time.RFC3339))
	for _, row := range rows {
		fmt.Printf("  %-52s %.12g\n", row.name, row.value)
	}
	fmt.Println()
	fmt.Printf("  %-52s %s\n", "Solar noon", r.SolarNoon.Format(time.TimeOnly))
	if r.HasRiseSet() {
		fmt.Printf("  %-52s %s\n", "Sunrise", r.Sunrise.Format(time.TimeOnly))
		fmt.Printf("  %-52s %s\n", "Sunset", r.Sunset.Format(time.TimeOnly))
	} else {
		fmt.Printf("  %-52s %s\n", "Sunrise/Sunset", "none (polar day or night)")
	}
}
