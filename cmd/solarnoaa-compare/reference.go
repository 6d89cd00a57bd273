package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/thurmanmarka/solarnoaa"
)

// refDay is one reference sunrise and sunset. A zero time means the
// reference has no value for that day.
type refDay struct {
	date      time.Time
	rise, set time.Time
}

// goSunriseDays computes the reference with go-sunrise for days consecutive
// dates from start.
func goSunriseDays(site solarnoaa.Coordinates, start time.Time, days int) []refDay {
	out := make([]refDay, 0, days)
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d)
		rise, set := sunrise.SunriseSunset(site.Lat, site.Lon, date.Year(), date.Month(), date.Day())
		out = append(out, refDay{date: date, rise: rise, set: set})
	}
	return out
}

// readReferenceCSV parses rows of date,rise,set where rise and set are
// HH:MM[:SS] clocks in the site's zone. A header row is skipped; malformed
// rows are logged and skipped.
//
// date,rise,set
// 2025-01-01,07:32,17:12
func readReferenceCSV(r io.Reader, site solarnoaa.Coordinates) ([]refDay, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validated below
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("empty CSV file")
	}

	startIdx := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		startIdx = 1
	}

	zone := site.Zone()
	var (
		out     []refDay
		skipped int
	)
	for i := startIdx; i < len(records); i++ {
		row := records[i]
		if len(row) < 3 {
			log.Printf("row %d: expected at least 3 columns (date,rise,set), got %d, skipping", i+1, len(row))
			skipped++
			continue
		}

		date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(row[0]), zone)
		if err != nil {
			log.Printf("row %d: invalid date %q: %v, skipping", i+1, row[0], err)
			skipped++
			continue
		}
		rise, err := parseLocalTime(date, strings.TrimSpace(row[1]), zone)
		if err != nil {
			log.Printf("row %d: invalid rise time %q: %v, skipping", i+1, row[1], err)
			skipped++
			continue
		}
		set, err := parseLocalTime(date, strings.TrimSpace(row[2]), zone)
		if err != nil {
			log.Printf("row %d: invalid set time %q: %v, skipping", i+1, row[2], err)
			skipped++
			continue
		}
		out = append(out, refDay{date: date, rise: rise, set: set})
	}
	return out, skipped, nil
}
