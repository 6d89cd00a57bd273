package solarnoaa_test

import (
	"fmt"
	"time"

	"github.com/thurmanmarka/solarnoaa"
)

// ExampleRiseSetFor demonstrates computing sunrise and sunset for a location.
func ExampleRiseSetFor() {
	site := solarnoaa.Coordinates{
		Lat: 40,   // Boulder, CO
		Lon: -105, // west is negative
		TZ:  -6,   // MDT
	}

	// Only the calendar date is used.
	date := time.Date(2010, time.June, 21, 0, 0, 0, 0, time.UTC)

	rs, err := solarnoaa.RiseSetFor(site, date)
	if err != nil {
		panic(err)
	}

	fmt.Println("Sunrise:", rs.Rise.Format(time.TimeOnly))
	fmt.Println("Sunset:", rs.Set.Format(time.TimeOnly))
	// Output:
	// Sunrise: 05:31:15
	// Sunset: 20:32:08
}

// ExampleSunPosition demonstrates the Sun's observed position at an instant.
func ExampleSunPosition() {
	site := solarnoaa.Coordinates{Lat: 40, Lon: -105, TZ: -6}
	instant := time.Date(2010, time.June, 21, 0, 6, 0, 0, time.UTC)

	p, err := solarnoaa.SunPosition(site, instant, true)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Elevation: %.4f\n", p.Elevation)
	fmt.Printf("Azimuth: %.4f\n", p.Azimuth)
	// Output:
	// Elevation: -25.2335
	// Azimuth: 345.8691
}

// ExampleSunPositions walks the Sun across a morning in hourly steps.
func ExampleSunPositions() {
	site := solarnoaa.Coordinates{Lat: 37.4219444444444, Lon: -122.079583333333, TZ: -8}
	start := time.Date(2023, time.September, 21, 6, 0, 0, 0, time.UTC)
	stop := start.Add(3 * time.Hour)

	for p, err := range solarnoaa.SunPositions(site, solarnoaa.InstantRange(start, stop, time.Hour), true) {
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s above horizon: %t\n", p.Time.Format("15:04"), p.Elevation > 0)
	}
	// Output:
	// 06:00 above horizon: true
	// 07:00 above horizon: true
	// 08:00 above horizon: true
}

// ExampleDaylightHours demonstrates calculating daylight duration.
func ExampleDaylightHours() {
	site := solarnoaa.Coordinates{Lat: 40, Lon: -105, TZ: -6}

	hours, err := solarnoaa.DaylightHours(site, time.Date(2010, time.June, 21, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}

	fmt.Printf("Daylight: %.2f hours\n", hours)
	// Output:
	// Daylight: 15.01 hours
}
