package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/gray-logic-alexa/internal/catalogue"
	"github.com/nerrad567/gray-logic-alexa/internal/device"
	"github.com/nerrad567/gray-logic-alexa/internal/infrastructure/config"
)

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name:     "Status",
			builder:  func() string { return NewTopics("home/alexa").Status() },
			expected: "home/alexa/status",
		},
		{
			name:     "Devices",
			builder:  func() string { return NewTopics("home/alexa/").Devices() },
			expected: "home/alexa/devices",
		},
		{
			name:     "Device",
			builder:  func() string { return NewTopics("home/alexa").Device("kitchen-light") },
			expected: "home/alexa/device/kitchen-light",
		},
		{
			name:     "Device escapes reserved characters",
			builder:  func() string { return NewTopics("home/alexa").Device("cam#1/a") },
			expected: "home/alexa/device/cam%231%2Fa",
		},
		{
			name:     "empty prefix",
			builder:  func() string { return NewTopics("").Devices() },
			expected: "graylogic/alexa/devices",
		},
		{
			name:     "zero value",
			builder:  func() string { return Topics{}.Status() },
			expected: "graylogic/alexa/status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidatePublish(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{name: "valid", topic: "a/b", payload: []byte("x"), qos: 1},
		{name: "empty topic", topic: "", qos: 1, wantErr: ErrInvalidTopic},
		{name: "wildcard topic", topic: "a/#", qos: 1, wantErr: ErrInvalidTopic},
		{name: "invalid QoS", topic: "a/b", qos: 3, wantErr: ErrInvalidQoS},
		{name: "oversized payload", topic: "a/b", payload: make([]byte, maxPayloadSize+1), qos: 0, wantErr: ErrPublishFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePublish(tt.topic, tt.payload, tt.qos)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validatePublish() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validatePublish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_NotConnected(t *testing.T) {
	c := &Client{}

	if c.IsConnected() {
		t.Error("IsConnected() = true for unconnected client")
	}
	if err := c.Publish("a/b", []byte("x"), 1, true); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.Default().MQTT
	cfg.Broker.TLS = true
	cfg.Auth.Username = "bridge"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://localhost:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "graylogic-alexa" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "bridge" || opts.Password != "secret" {
		t.Error("credentials not applied")
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLS config not applied")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(config.Default().MQTT)
	configureLWT(opts, NewTopics("home/alexa"), "bridge-1")

	if !opts.WillEnabled || opts.WillTopic != "home/alexa/status" || !opts.WillRetained {
		t.Errorf("will = %v %q retained=%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}

	var p statusPayload
	if err := json.Unmarshal(opts.WillPayload, &p); err != nil {
		t.Fatalf("will payload: %v", err)
	}
	if p.Status != "offline" || p.ClientID != "bridge-1" || p.Reason != "unexpected_disconnect" {
		t.Errorf("will payload = %+v", p)
	}
}

// fakePublisher records retained publishes.
type fakePublisher struct {
	messages map[string][]byte
	failOn   string
}

func (p *fakePublisher) PublishRetained(topic string, payload []byte) error {
	if p.failOn != "" && strings.HasSuffix(topic, p.failOn) {
		return ErrPublishFailed
	}
	if p.messages == nil {
		p.messages = make(map[string][]byte)
	}
	p.messages[topic] = payload
	return nil
}

type stubEntry struct{ id string }

func (e stubEntry) ID() string { return e.id }

func (e stubEntry) Range() (device.Range, bool) { return device.Range{}, false }

func testRegistry(t *testing.T) *device.Registry {
	t.Helper()
	reg := device.NewRegistry()
	for _, id := range []string{"lamp", "heater"} {
		d := device.New(id)
		d.Name = strings.ToUpper(id)
		d.AuthCred = "user:pass"
		d.Register("turnOn", stubEntry{id: "items." + id})
		if err := reg.Put(d); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	reg.Freeze()
	return reg
}

func TestAnnouncer_Announce(t *testing.T) {
	pub := &fakePublisher{}
	a := NewAnnouncer(pub, NewTopics("home/alexa"))

	err := a.Announce(context.Background(), testRegistry(t), catalogue.Stats{Devices: 2, Compiled: 2})
	if err != nil {
		t.Fatalf("Announce() error = %v", err)
	}

	if len(pub.messages) != 3 {
		t.Fatalf("published %d messages, want 3", len(pub.messages))
	}

	var body cataloguePayload
	if err := json.Unmarshal(pub.messages["home/alexa/devices"], &body); err != nil {
		t.Fatalf("catalogue payload: %v", err)
	}
	if body.Count != 2 || body.Stats.Compiled != 2 || body.Devices[0].ID != "lamp" {
		t.Errorf("catalogue = %+v", body)
	}

	detail := string(pub.messages["home/alexa/device/heater"])
	if !strings.Contains(detail, `"turnOn"`) {
		t.Errorf("device payload missing actions: %s", detail)
	}
	if strings.Contains(detail, "user:pass") {
		t.Errorf("device payload leaks credentials: %s", detail)
	}
}

func TestAnnouncer_DeviceFailureIsCollected(t *testing.T) {
	pub := &fakePublisher{failOn: "/device/lamp"}
	a := NewAnnouncer(pub, NewTopics("home/alexa"))

	err := a.Announce(context.Background(), testRegistry(t), catalogue.Stats{})
	if !errors.Is(err, ErrPublishFailed) {
		t.Fatalf("Announce() error = %v, want ErrPublishFailed", err)
	}
	if _, ok := pub.messages["home/alexa/device/heater"]; !ok {
		t.Error("later device not published after earlier failure")
	}
}

func TestAnnouncer_SummaryFailureStops(t *testing.T) {
	pub := &fakePublisher{failOn: "/devices"}
	a := NewAnnouncer(pub, NewTopics("home/alexa"))

	if err := a.Announce(context.Background(), testRegistry(t), catalogue.Stats{}); err == nil {
		t.Fatal("Announce() error = nil")
	}
	if len(pub.messages) != 0 {
		t.Errorf("published %d device messages after summary failure", len(pub.messages))
	}
}
