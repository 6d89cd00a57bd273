// Command solarnoaa-compare measures how far the NOAA sunrise and sunset
// drift from a reference: go-sunrise by default, or a CSV of published times.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/thurmanmarka/solarnoaa"
)

func main() {
	var (
		lat      = flag.Float64("lat", 0, "latitude in degrees (north positive)")
		lon      = flag.Float64("lon", 0, "longitude in degrees (east positive, west negative)")
		tz       = flag.Float64("tz", 0, "UTC offset in hours of the site and of the CSV times")
		refCSV   = flag.String("refcsv", "", "reference CSV (date,rise,set); go-sunrise is used when empty")
		startS   = flag.String("start", "", "first date for the go-sunrise reference (YYYY-MM-DD, default Jan 1 this year)")
		days     = flag.Int("days", 365, "number of days for the go-sunrise reference")
		twilight = flag.String("twilight", "", "compare civil, nautical or astronomical twilight instead (CSV only)")
		verbose  = flag.Bool("verbose", false, "print per-day errors instead of only the summary")
		outCSV   = flag.String("outcsv", "", "optional path to write per-row error CSV")
	)
	flag.Parse()
	log.SetFlags(0)

	site := solarnoaa.Coordinates{Lat: *lat, Lon: *lon, TZ: *tz}
	if err := site.Validate(); err != nil {
		log.Fatal(err)
	}
	if *lat == 0 && *lon == 0 {
		log.Println("warning: lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}

	var kind *solarnoaa.TwilightKind
	if *twilight != "" {
		if *refCSV == "" {
			log.Fatal("-twilight needs a -refcsv with dawn and dusk times")
		}
		k, err := parseTwilight(*twilight)
		if err != nil {
			log.Fatal(err)
		}
		kind = &k
	}

	var (
		ref     []refDay
		skipped int
		source  string
	)
	if *refCSV != "" {
		f, err := os.Open(*refCSV)
		if err != nil {
			log.Fatalf("failed to open refcsv %q: %v", *refCSV, err)
		}
		ref, skipped, err = readReferenceCSV(f, site)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
		source = *refCSV
	} else {
		start := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, site.Zone())
		if *startS != "" {
			var err error
			start, err = time.ParseInLocation(time.DateOnly, *startS, site.Zone())
			if err != nil {
				log.Fatalf("invalid -start %q: %v", *startS, err)
			}
		}
		ref = goSunriseDays(site, start, *days)
		source = "go-sunrise"
	}

	var out *csv.Writer
	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			log.Fatalf("failed to create outcsv %q: %v", *outCSV, err)
		}
		defer f.Close()
		out = csv.NewWriter(f)
		defer out.Flush()
		if err := out.Write([]string{"date", "rise_ours", "rise_ref", "rise_err", "set_ours", "set_ref", "set_err"}); err != nil {
			log.Fatalf("failed to write outcsv header: %v", err)
		}
	}

	res := compare(site, ref, kind)
	skipped += res.skipped

	for _, row := range res.rows {
		if *verbose {
			fmt.Printf("%s: rise err=%+.2f min (got=%s ref=%s), set err=%+.2f min (got=%s ref=%s)\n",
				row.date.Format(time.DateOnly),
				row.riseErr, clock(row.rise), clock(row.refRise),
				row.setErr, clock(row.set), clock(row.refSet))
		}
		if out != nil {
			rec := []string{
				row.date.Format(time.DateOnly),
				clock(row.rise), clock(row.refRise), fmt.Sprintf("%.6f", row.riseErr),
				clock(row.set), clock(row.refSet), fmt.Sprintf("%.6f", row.setErr),
			}
			if err := out.Write(rec); err != nil {
				log.Printf("%s: failed to write outcsv: %v", row.date.Format(time.DateOnly), err)
			}
		}
	}

	mode := "SUNRISE/SUNSET"
	if kind != nil {
		mode = strings.ToUpper(kind.String()) + " TWILIGHT"
	}

	fmt.Println("=== solarnoaa compare summary ===")
	fmt.Printf("Mode:      %s\n", mode)
	fmt.Printf("Reference: %s\n", source)
	fmt.Printf("Lat/Lon:   %.4f / %.4f\n", site.Lat, site.Lon)
	fmt.Printf("TZ:        %s\n", site.Zone())
	fmt.Printf("Rows:      %d (processed), %d skipped\n", len(res.rows), skipped)

	if res.rise.count == 0 && res.set.count == 0 {
		fmt.Println("No valid rows to compute stats.")
		return
	}
	res.rise.print(os.Stdout, "Rise error")
	res.set.print(os.Stdout, "Set error")
}

type compareRow struct {
	date            time.Time
	rise, refRise   time.Time
	set, refSet     time.Time
	riseErr, setErr float64
}

type comparison struct {
	rows      []compareRow
	rise, set stats
	skipped   int
}

// compare evaluates each reference day with NOAA formulas. Days where NOAA
// has no sunrise or sunset are skipped.
func compare(site solarnoaa.Coordinates, ref []refDay, kind *solarnoaa.TwilightKind) comparison {
	var res comparison
	for _, day := range ref {
		var (
			rs  solarnoaa.RiseSet
			err error
		)
		if kind != nil {
			rs, err = solarnoaa.TwilightFor(site, day.date, *kind)
		} else {
			rs, err = solarnoaa.RiseSetFor(site, day.date)
		}
		if err != nil {
			log.Printf("%s: %v, skipping", day.date.Format(time.DateOnly), err)
			res.skipped++
			continue
		}

		row := compareRow{
			date:    day.date,
			rise:    rs.Rise,
			refRise: day.rise,
			set:     rs.Set,
			refSet:  day.set,
			riseErr: diffMinutesSigned(rs.Rise, day.rise),
			setErr:  diffMinutesSigned(rs.Set, day.set),
		}
		res.rise.add(row.riseErr)
		res.set.add(row.setErr)
		res.rows = append(res.rows, row)
	}
	return res
}

func parseTwilight(s string) (solarnoaa.TwilightKind, error) {
	switch strings.ToLower(s) {
	case "civil":
		return solarnoaa.TwilightCivil, nil
	case "nautical":
		return solarnoaa.TwilightNautical, nil
	case "astronomical":
		return solarnoaa.TwilightAstronomical, nil
	default:
		return 0, fmt.Errorf("unknown twilight kind %q (use civil, nautical, or astronomical)", s)
	}
}

func clock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.TimeOnly)
}
