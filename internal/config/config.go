package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// CORSAllowedOrigins is a comma-separated list; empty allows every origin.
	CORSAllowedOrigins []string

	// Default site for the serve and watch commands.
	SiteLat float64
	SiteLon float64
	SiteTZ  float64

	MQTTBroker      string
	MQTTPort        int
	MQTTClientID    string
	MQTTTopicPrefix string

	// PositionInterval is how often watch publishes the Sun's position.
	PositionInterval time.Duration
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	lat, err := parseFloat("SITE_LAT", "0", -90, 90)
	if err != nil {
		return Config{}, err
	}
	lon, err := parseFloat("SITE_LON", "0", -180, 180)
	if err != nil {
		return Config{}, err
	}
	tz, err := parseFloat("SITE_TZ", "0", -12, 14)
	if err != nil {
		return Config{}, err
	}

	broker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))

	portStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if portStr == "" {
		portStr = "1883"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q", portStr)
	}

	clientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if clientID == "" {
		clientID = "solarnoaa"
	}

	prefix := strings.Trim(strings.TrimSpace(os.Getenv("MQTT_TOPIC_PREFIX")), "/")
	if prefix == "" {
		prefix = "solarnoaa"
	}

	intervalStr := strings.TrimSpace(os.Getenv("POSITION_INTERVAL"))
	if intervalStr == "" {
		intervalStr = "15m"
	}
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid POSITION_INTERVAL %q: %w", intervalStr, err)
	}
	if interval < time.Second {
		return Config{}, fmt.Errorf("invalid POSITION_INTERVAL %q: must be at least 1s", intervalStr)
	}

	return Config{
		AppEnv:             appEnv,
		LogLevel:           level,
		HTTPAddr:           httpAddr,
		CORSAllowedOrigins: origins,
		SiteLat:            lat,
		SiteLon:            lon,
		SiteTZ:             tz,
		MQTTBroker:         broker,
		MQTTPort:           port,
		MQTTClientID:       clientID,
		MQTTTopicPrefix:    prefix,
		PositionInterval:   interval,
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func parseFloat(key, def string, lo, hi float64) (float64, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		s = def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if math.IsNaN(v) || v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s %q (must be within [%g, %g])", key, s, lo, hi)
	}
	return v, nil
}
