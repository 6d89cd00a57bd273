// Package schedule provides robfig/cron schedules that fire on solar events.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thurmanmarka/solarnoaa"
)

// Event is a daily solar event a schedule can follow.
type Event int

const (
	Sunrise Event = iota
	Sunset
	SolarNoon
	CivilDawn
	CivilDusk
)

var eventNames = map[Event]string{
	Sunrise:   "sunrise",
	Sunset:    "sunset",
	SolarNoon: "noon",
	CivilDawn: "dawn",
	CivilDusk: "dusk",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// ParseEvent is the inverse of Event.String.
func ParseEvent(s string) (Event, error) {
	for e, name := range eventNames {
		if name == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown solar event %q", s)
}

// Events lists every event in the order they occur on an ordinary day.
func Events() []Event {
	return []Event{CivilDawn, Sunrise, SolarNoon, Sunset, CivilDusk}
}

// errNoEvent marks a day on which the event does not happen.
var errNoEvent = errors.New("event does not occur")

// At returns the time of e at site on date's calendar day.
func (e Event) At(site solarnoaa.Coordinates, date time.Time) (time.Time, error) {
	switch e {
	case Sunrise:
		return solarnoaa.Sunrise(site, date)
	case Sunset:
		return solarnoaa.Sunset(site, date)
	case SolarNoon:
		return solarnoaa.SolarNoon(site, date)
	case CivilDawn, CivilDusk:
		rs, err := solarnoaa.TwilightFor(site, date, solarnoaa.TwilightCivil)
		if err != nil {
			return time.Time{}, err
		}
		t := rs.Rise
		if e == CivilDusk {
			t = rs.Set
		}
		if t.IsZero() {
			return time.Time{}, fmt.Errorf("%s on %s: %w", e, date.Format(time.DateOnly), errNoEvent)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("unknown solar event %d", int(e))
	}
}

// maxSearchDays bounds the search for the next occurrence; polar day and
// night last at most about six months.
const maxSearchDays = 370

// SunSchedule fires Offset after each occurrence of Event at Site.
//
// This implements robfig/cron.Schedule
type SunSchedule struct {
	Site   solarnoaa.Coordinates `json:"site"`
	Event  Event                 `json:"event"`
	Offset time.Duration         `json:"offset"`
}

// Next returns the first firing strictly after now. Days on which the event
// does not happen are skipped. If nothing fires within a year, or the site
// is invalid, Next returns the zero time and cron never runs the job.
func (s SunSchedule) Next(now time.Time) time.Time {
	local := now.In(s.Site.Zone())
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Site.Zone())

	// start a day early so a large offset can carry yesterday's event past now
	for d := -1; d <= maxSearchDays; d++ {
		t, err := s.Event.At(s.Site, day.AddDate(0, 0, d))
		if err != nil {
			if errors.Is(err, solarnoaa.ErrNoRiseNoSet) || errors.Is(err, errNoEvent) {
				continue
			}
			return time.Time{}
		}
		if fire := t.Add(s.Offset); fire.After(now) {
			return fire
		}
	}
	return time.Time{}
}

func (s SunSchedule) String() string {
	if s.Offset == 0 {
		return "@" + s.Event.String()
	}
	return fmt.Sprintf("@%s %s", s.Event, s.Offset)
}

// Parse reads a job schedule. Specs of the form "@<event> [offset]", e.g.
// "@sunset -30m" or "@dawn", follow the Sun at site; anything else is handed
// to cron.ParseStandard.
func Parse(spec string, site solarnoaa.Coordinates) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty schedule")
	}

	if name, ok := strings.CutPrefix(fields[0], "@"); ok {
		event, err := ParseEvent(name)
		if err != nil {
			// @daily, @every 1h, ...
			return cron.ParseStandard(spec)
		}
		if err := site.Validate(); err != nil {
			return nil, err
		}
		if len(fields) > 2 {
			return nil, fmt.Errorf("parse %q: expected \"@%s [offset]\"", spec, name)
		}

		var offset time.Duration
		if len(fields) == 2 {
			offset, err = time.ParseDuration(fields[1])
			if err != nil {
				return nil, fmt.Errorf("parse %s offset: %w", name, err)
			}
		}
		return SunSchedule{Site: site, Event: event, Offset: offset}, nil
	}

	return cron.ParseStandard(spec)
}
