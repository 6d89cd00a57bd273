package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thurmanmarka/solarnoaa"
	"github.com/thurmanmarka/solarnoaa/internal/config"
	"github.com/thurmanmarka/solarnoaa/internal/logging"
	"github.com/thurmanmarka/solarnoaa/internal/publish"
	"github.com/thurmanmarka/solarnoaa/internal/schedule"
)

// sink receives what watch produces. The MQTT publisher is one; without a
// broker the messages are only logged.
type sink interface {
	PublishEvent(publish.EventMessage) error
	PublishPosition(publish.PositionMessage) error
}

type logSink struct{ logger *slog.Logger }

func (s logSink) PublishEvent(m publish.EventMessage) error {
	s.logger.Info("sun event", "event", m.Event, "time", m.Time.Format(time.RFC3339), "offset", m.Offset)
	return nil
}

func (s logSink) PublishPosition(m publish.PositionMessage) error {
	s.logger.Info("sun position", "elevation", m.Elevation, "azimuth", m.Azimuth, "daylight", m.Daylight)
	return nil
}

func runWatch(args []string) {
	cfg := loadConfig()
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	site := siteFlags(fs, cfg)
	extra := fs.String("jobs", "", `extra event schedules separated by ";", e.g. "@sunset -30m;@sunrise 1h"`)
	interval := fs.Duration("interval", cfg.PositionInterval, "how often to publish the position (0 disables)")
	parseFlags(fs, args, "solarnoaa watch [flags]")

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)
	c := site()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var out sink = logSink{logger: logger}
	if cfg.MQTTBroker != "" {
		pub := publish.New(cfg, logger)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := pub.Connect(connectCtx)
		cancel()
		if err != nil {
			slog.Error("mqtt connect failed", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		out = pub
	} else {
		slog.Warn("MQTT_BROKER not set, logging events only")
	}

	if err := watch(ctx, cfg, c, *extra, *interval, out); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("watch failed", "error", err)
		os.Exit(1)
	}
	slog.Info("shutting down")
}

func watch(ctx context.Context, cfg config.Config, site solarnoaa.Coordinates, extra string, interval time.Duration, out sink) error {
	specs := make([]string, 0, 8)
	for _, e := range schedule.Events() {
		specs = append(specs, "@"+e.String())
	}
	for _, s := range strings.Split(extra, ";") {
		if s = strings.TrimSpace(s); s != "" {
			specs = append(specs, s)
		}
	}

	now := time.Now()
	sunCron := cron.New(cron.WithLocation(site.Zone()))
	for _, spec := range specs {
		sched, err := schedule.Parse(spec, site)
		if err != nil {
			return err
		}
		sun, ok := sched.(schedule.SunSchedule)
		if !ok {
			return errors.New("watch jobs must follow a solar event: " + spec)
		}

		sunCron.Schedule(sun, cron.FuncJob(func() {
			msg := publish.EventMessage{Event: sun.Event.String(), Time: time.Now().In(site.Zone()), Site: site}
			if sun.Offset != 0 {
				msg.Offset = sun.Offset.String()
			}
			if err := out.PublishEvent(msg); err != nil {
				slog.Error("publish event", "event", msg.Event, "error", err)
			}
		}))
		slog.Info("job", "schedule", sun.String(), "next", sun.Next(now).Format(time.RFC3339))
	}

	if interval > 0 {
		positionJob := cron.FuncJob(func() {
			p, err := solarnoaa.SunPosition(site, time.Now().In(site.Zone()), true)
			if err != nil {
				slog.Error("compute position", "error", err)
				return
			}
			if err := out.PublishPosition(publish.NewPositionMessage(site, p)); err != nil {
				slog.Error("publish position", "error", err)
			}
		})
		sunCron.Schedule(cron.Every(interval), positionJob)
		positionJob()
	}

	slog.Info("watching", "lat", site.Lat, "lon", site.Lon, "tz", site.TZ, "topic_prefix", cfg.MQTTTopicPrefix)
	sunCron.Start()
	<-ctx.Done()
	<-sunCron.Stop().Done()
	return ctx.Err()
}
