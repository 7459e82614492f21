package influxdb

import (
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-alexa/internal/catalogue"
	"github.com/nerrad567/gray-logic-alexa/internal/infrastructure/config"
)

func TestCataloguePoints(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	stats := catalogue.Stats{Entries: 5, Compiled: 3, Skipped: 1, Rejected: 1, Devices: 4, Aliases: 1}

	points := cataloguePoints("site-001", stats, map[string]int{"turnOn": 3, "setPercentage": 1}, ts)
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}

	line := write.PointToLineProtocol(points[0], time.Second)
	for _, want := range []string{
		"alexa_catalogue,site=site-001 ",
		"entries=5i",
		"compiled=3i",
		"rejected=1i",
		"aliases_skipped=0i",
		" 1700000000",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("catalogue point %q missing %q", line, want)
		}
	}

	var actions []string
	for _, p := range points[1:] {
		actions = append(actions, write.PointToLineProtocol(p, time.Second))
	}
	joined := strings.Join(actions, "\n")
	if !strings.Contains(joined, "alexa_action,action=turnOn,site=site-001 devices=3i") {
		t.Errorf("action points = %q", joined)
	}
}

func TestBatchSettings(t *testing.T) {
	tests := []struct {
		name          string
		size, flush   int
		wantSize      int
		wantFlushSecs int
	}{
		{"configured", 50, 2, 50, 2},
		{"zero uses defaults", 0, 0, defaultBatchSize, defaultFlushInterval},
		{"negative uses defaults", -5, -1, defaultBatchSize, defaultFlushInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, flush := batchSettings(config.InfluxDBConfig{BatchSize: tt.size, FlushInterval: tt.flush})
			if size != tt.wantSize || flush != tt.wantFlushSecs {
				t.Errorf("batchSettings() = %d, %d; want %d, %d", size, flush, tt.wantSize, tt.wantFlushSecs)
			}
		})
	}
}

func TestClient_NotConnected(t *testing.T) {
	c := &Client{}
	if c.IsConnected() {
		t.Error("IsConnected() = true for zero client")
	}
	// Writes while disconnected are dropped without touching the write API.
	c.WriteCatalogueStats("site", catalogue.Stats{}, nil)
	c.Flush()
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
