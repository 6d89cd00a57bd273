package publish

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/thurmanmarka/solarnoaa"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type sent struct {
	topic    string
	retained bool
	payload  []byte
}

// fakeClient records publishes. Methods not overridden panic if called.
type fakeClient struct {
	mqtt.Client

	mu        sync.Mutex
	connected bool
	err       error
	sent      []sent
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b []byte
	switch v := payload.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	}
	c.sent = append(c.sent, sent{topic: topic, retained: retained, payload: b})
	return doneToken{err: c.err}
}

func (c *fakeClient) Disconnect(uint) { c.connected = false }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var boulder = solarnoaa.Coordinates{Lat: 40, Lon: -105, TZ: -6}

func TestPublishPosition(t *testing.T) {
	fc := &fakeClient{connected: true}
	p := newWithClient(fc, "home/sun", quietLogger())

	pos, err := solarnoaa.SunPosition(boulder, time.Date(2010, time.June, 21, 12, 0, 0, 0, time.UTC), true)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.PublishPosition(NewPositionMessage(boulder, pos)); err != nil {
		t.Fatalf("PublishPosition() error = %v", err)
	}

	if len(fc.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fc.sent))
	}
	msg := fc.sent[0]
	if msg.topic != "home/sun/position" || !msg.retained {
		t.Errorf("topic = %q retained = %t, want home/sun/position retained", msg.topic, msg.retained)
	}

	var got PositionMessage
	if err := json.Unmarshal(msg.payload, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got.Elevation != pos.Elevation || got.Azimuth != pos.Azimuth || !got.Daylight {
		t.Errorf("payload = %+v, want position %+v in daylight", got, pos)
	}
	if got.Site != boulder {
		t.Errorf("payload site = %+v, want %+v", got.Site, boulder)
	}
}

func TestPublishEvent(t *testing.T) {
	fc := &fakeClient{connected: true}
	p := newWithClient(fc, "solarnoaa", quietLogger())

	at := time.Date(2010, time.June, 21, 20, 32, 8, 0, boulder.Zone())
	if err := p.PublishEvent(EventMessage{Event: "sunset", Time: at, Offset: "-30m0s", Site: boulder}); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	msg := fc.sent[0]
	if msg.topic != "solarnoaa/event/sunset" || msg.retained {
		t.Errorf("topic = %q retained = %t, want solarnoaa/event/sunset not retained", msg.topic, msg.retained)
	}
	var raw map[string]any
	if err := json.Unmarshal(msg.payload, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["event"] != "sunset" || raw["time"] != "2010-06-21T20:32:08-06:00" || raw["offset"] != "-30m0s" {
		t.Errorf("payload = %s", msg.payload)
	}
}

func TestPublishErrors(t *testing.T) {
	p := newWithClient(&fakeClient{connected: false}, "x", quietLogger())
	if err := p.PublishEvent(EventMessage{Event: "sunrise"}); err == nil {
		t.Errorf("PublishEvent() while disconnected error = nil")
	}

	broken := errors.New("broker gone")
	p = newWithClient(&fakeClient{connected: true, err: broken}, "x", quietLogger())
	if err := p.PublishEvent(EventMessage{Event: "sunrise"}); !errors.Is(err, broken) {
		t.Errorf("PublishEvent() error = %v, want %v", err, broken)
	}
}

func TestClose(t *testing.T) {
	fc := &fakeClient{connected: true}
	p := newWithClient(fc, "solarnoaa", quietLogger())

	p.Close()
	p.Close()

	if p.IsConnected() {
		t.Errorf("IsConnected() after Close = true")
	}
	if len(fc.sent) != 1 || fc.sent[0].topic != "solarnoaa/status" || string(fc.sent[0].payload) != "offline" {
		t.Errorf("sent = %+v, want one offline status", fc.sent)
	}
}
