package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/thurmanmarka/solarnoaa"
	"github.com/thurmanmarka/solarnoaa/internal/config"
)

const publishTimeout = 5 * time.Second

// Publisher sends sun events and positions for one site to an MQTT broker.
type Publisher struct {
	client    mqtt.Client
	prefix    string
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// EventMessage is published on <prefix>/event/<name> when a solar event fires.
type EventMessage struct {
	Event  string                `json:"event"`
	Time   time.Time             `json:"time"`
	Offset string                `json:"offset,omitempty"`
	Site   solarnoaa.Coordinates `json:"site"`
}

// PositionMessage is published, retained, on <prefix>/position.
type PositionMessage struct {
	Time      time.Time             `json:"time"`
	Elevation float64               `json:"elevation_deg"`
	Azimuth   float64               `json:"azimuth_deg"`
	Daylight  bool                  `json:"daylight"`
	Site      solarnoaa.Coordinates `json:"site"`
}

// NewPositionMessage wraps a computed position for site.
func NewPositionMessage(site solarnoaa.Coordinates, p solarnoaa.Position) PositionMessage {
	return PositionMessage{
		Time:      p.Time,
		Elevation: p.Elevation,
		Azimuth:   p.Azimuth,
		Daylight:  p.Elevation > 0,
		Site:      site,
	}
}

func New(cfg config.Config, logger *slog.Logger) *Publisher {
	p := &Publisher{
		prefix: cfg.MQTTTopicPrefix,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// last will: subscribers see the publisher go away
	opts.SetWill(p.topic("status"), "offline", 1, true)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		p.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
		c.Publish(p.topic("status"), 1, true, "online")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	p.client = mqtt.NewClient(opts)
	return p
}

func newWithClient(client mqtt.Client, prefix string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:    client,
		prefix:    prefix,
		logger:    logger,
		connected: true,
		stopCh:    make(chan struct{}),
	}
}

// Connect waits for the initial broker connection, honouring ctx and Close.
func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return fmt.Errorf("publisher stopped")
	default:
	}

	if p.IsConnected() {
		return nil
	}

	token := p.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			p.client.Disconnect(0)
			return ctx.Err()
		case <-p.stopCh:
			p.client.Disconnect(0)
			return fmt.Errorf("publisher stopped")
		default:
		}
	}
}

// PublishEvent announces that a solar event has fired.
func (p *Publisher) PublishEvent(msg EventMessage) error {
	return p.publish(p.topic("event/"+msg.Event), false, msg)
}

// PublishPosition replaces the retained position for the site.
func (p *Publisher) PublishPosition(msg PositionMessage) error {
	return p.publish(p.topic("position"), true, msg)
}

func (p *Publisher) publish(topic string, retained bool, v any) error {
	if !p.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}

	token := p.client.Publish(topic, 1, retained, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		p.logger.Error("failed to publish", "topic", topic, "error", err)
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	p.logger.Debug("published", "topic", topic, "bytes", len(data))
	return nil
}

func (p *Publisher) topic(suffix string) string {
	return p.prefix + "/" + suffix
}

// IsConnected returns whether the client is connected.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Close stops the publisher and disconnects. Safe to call more than once.
func (p *Publisher) Close() {
	p.stopOnce.Do(func() { close(p.stopCh) })

	if p.client != nil {
		if p.IsConnected() {
			p.client.Publish(p.topic("status"), 1, true, "offline").WaitTimeout(time.Second)
		}
		p.client.Disconnect(250)
	}

	p.setConnected(false)
	p.logger.Info("mqtt publisher closed")
}

func (p *Publisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}
