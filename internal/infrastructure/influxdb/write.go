package influxdb

import (
	"context"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-alexa/internal/catalogue"
	"github.com/nerrad567/gray-logic-alexa/internal/device"
)

// Measurement names written by the bridge.
const (
	// MeasurementCatalogue holds one point per catalogue build.
	MeasurementCatalogue = "alexa_catalogue"

	// MeasurementAction holds one point per action, counting the devices
	// that support it.
	MeasurementAction = "alexa_action"
)

// WritePoint writes a generic data point with the current time.
//
// The write is non-blocking; errors are delivered via the SetOnError
// callback. Points written while disconnected are dropped.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.WritePointAt(write.NewPoint(measurement, tags, fields, time.Now()))
}

// WritePointAt queues a prepared point.
func (c *Client) WritePointAt(point *write.Point) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(point)
}

// WriteCatalogueStats records the outcome of a catalogue build.
//
// Parameters:
//   - site: Site identifier, written as the "site" tag
//   - stats: Build statistics
//   - actions: Device count per action (device.Stats.ByAction)
func (c *Client) WriteCatalogueStats(site string, stats catalogue.Stats, actions map[string]int) {
	for _, p := range cataloguePoints(site, stats, actions, time.Now()) {
		c.WritePointAt(p)
	}
}

// cataloguePoints builds the points for one catalogue build, all sharing
// the timestamp ts.
func cataloguePoints(site string, stats catalogue.Stats, actions map[string]int, ts time.Time) []*write.Point {
	points := make([]*write.Point, 0, 1+len(actions))

	points = append(points, write.NewPoint(
		MeasurementCatalogue,
		map[string]string{"site": site},
		map[string]interface{}{
			"entries":         stats.Entries,
			"compiled":        stats.Compiled,
			"skipped":         stats.Skipped,
			"rejected":        stats.Rejected,
			"devices":         stats.Devices,
			"aliases":         stats.Aliases,
			"aliases_skipped": stats.AliasesSkipped,
		},
		ts,
	))

	for name, count := range actions {
		points = append(points, write.NewPoint(
			MeasurementAction,
			map[string]string{"site": site, "action": name},
			map[string]interface{}{"devices": count},
			ts,
		))
	}

	return points
}

// PointWriter is the subset of *Client used by Recorder.
type PointWriter interface {
	WriteCatalogueStats(site string, stats catalogue.Stats, actions map[string]int)
	Flush()
}

// Recorder adapts a PointWriter to the catalogue announcer contract.
type Recorder struct {
	writer PointWriter
	site   string
}

// NewRecorder creates a Recorder tagging every point with site.
func NewRecorder(writer PointWriter, site string) *Recorder {
	return &Recorder{writer: writer, site: site}
}

// Announce writes the build statistics and flushes so the points are
// visible before the service starts.
func (r *Recorder) Announce(ctx context.Context, registry *device.Registry, stats catalogue.Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.writer.WriteCatalogueStats(r.site, stats, registry.GetStats().ByAction)
	r.writer.Flush()
	return nil
}
