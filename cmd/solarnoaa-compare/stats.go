package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

// stats accumulates errors in minutes. NaN samples are ignored.
type stats struct {
	count int
	sum   float64
	abs   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	s.sum += v
	s.abs += math.Abs(v)
	s.count++
}

func (s *stats) mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

func (s *stats) meanAbs() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.abs / float64(s.count)
}

func (s *stats) print(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s (minutes, ours - ref):\n", title)
	fmt.Fprintf(w, "  count:    %d\n", s.count)
	fmt.Fprintf(w, "  min:      %.3f\n", s.min)
	fmt.Fprintf(w, "  max:      %.3f\n", s.max)
	fmt.Fprintf(w, "  mean:     %.3f\n", s.mean())
	fmt.Fprintf(w, "  mean abs: %.3f\n", s.meanAbs())
}

// diffMinutesSigned is a-b in minutes, NaN when either side is missing.
func diffMinutesSigned(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return a.Sub(b).Minutes()
}

// parseLocalTime combines a HH:MM or HH:MM:SS clock with date in loc.
func parseLocalTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}

	parsed, err := time.ParseInLocation(layout, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
}
