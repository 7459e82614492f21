package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
site:
  id: "test-site"
items:
  path: "/etc/graylogic/items.yaml"
service:
  host: "127.0.0.1"
  port: 9443
mqtt:
  enabled: true
  broker:
    host: "mqtt.local"
    port: 1883
    client_id: "test-client"
  qos: 1
  topic_prefix: "home/alexa"
logging:
  level: debug
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-site" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-site")
	}
	if cfg.Items.Path != "/etc/graylogic/items.yaml" {
		t.Errorf("Items.Path = %q", cfg.Items.Path)
	}
	if cfg.Service.Port != 9443 {
		t.Errorf("Service.Port = %d, want 9443", cfg.Service.Port)
	}
	if cfg.MQTT.TopicPrefix != "home/alexa" {
		t.Errorf("MQTT.TopicPrefix = %q", cfg.MQTT.TopicPrefix)
	}

	// Unset values keep their defaults.
	if cfg.Service.Timeouts.Idle != 60 {
		t.Errorf("Service.Timeouts.Idle = %d, want default 60", cfg.Service.Timeouts.Idle)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want default json", cfg.Logging.Format)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
site:
  id: ""
service:
  port: 70000
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() expected validation error, got nil")
	}
	// All problems are reported together.
	for _, want := range []string{"site.id", "service.port"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	t.Setenv("GRAYLOGIC_SERVICE_PORT", "http")

	_, err := Load(writeConfig(t, "site:\n  id: x\n"))
	if err == nil || !strings.Contains(err.Error(), "GRAYLOGIC_SERVICE_PORT") {
		t.Errorf("Load() error = %v, want GRAYLOGIC_SERVICE_PORT error", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing site ID",
			mutate:  func(c *Config) { c.Site.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing items path",
			mutate:  func(c *Config) { c.Items.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid port low",
			mutate:  func(c *Config) { c.Service.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port high",
			mutate:  func(c *Config) { c.Service.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "TLS without key",
			mutate:  func(c *Config) { c.Service.TLS = TLSConfig{Enabled: true, CertFile: "cert.pem"} },
			wantErr: true,
		},
		{
			name: "MQTT enabled with wildcard prefix",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.TopicPrefix = "graylogic/#"
			},
			wantErr: true,
		},
		{
			name:    "MQTT disabled ignores prefix",
			mutate:  func(c *Config) { c.MQTT.TopicPrefix = "" },
			wantErr: false,
		},
		{
			name: "InfluxDB enabled without bucket",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Bucket = ""
			},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		Service: ServiceConfig{
			Timeouts: ServiceTimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()

	t.Setenv("GRAYLOGIC_ITEMS_PATH", "/custom/items.yaml")
	t.Setenv("GRAYLOGIC_SERVICE_HOST", "192.168.1.1")
	t.Setenv("GRAYLOGIC_SERVICE_PORT", "9999")
	t.Setenv("GRAYLOGIC_MQTT_HOST", "mqtt.example.com")
	t.Setenv("GRAYLOGIC_MQTT_USERNAME", "testuser")
	t.Setenv("GRAYLOGIC_MQTT_PASSWORD", "testpass")
	t.Setenv("GRAYLOGIC_INFLUXDB_TOKEN", "secret-token")

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	if cfg.Items.Path != "/custom/items.yaml" {
		t.Errorf("Items.Path = %q, want %q", cfg.Items.Path, "/custom/items.yaml")
	}

	if cfg.Service.Host != "192.168.1.1" {
		t.Errorf("Service.Host = %q, want %q", cfg.Service.Host, "192.168.1.1")
	}

	if cfg.Service.Port != 9999 {
		t.Errorf("Service.Port = %d, want 9999", cfg.Service.Port)
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Site.ID == "" {
		t.Error("Default should have non-empty Site.ID")
	}

	if cfg.Items.Path == "" {
		t.Error("Default should have non-empty Items.Path")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("Default MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.Service.Port != 9000 {
		t.Errorf("Default Service.Port = %d, want 9000", cfg.Service.Port)
	}
}
