package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-alexa/internal/catalogue"
	"github.com/nerrad567/gray-logic-alexa/internal/device"
)

// Publisher publishes retained messages. *Client implements it.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
}

// Announcer publishes the compiled catalogue as retained messages:
// a summary on <prefix>/devices and one detail message per device on
// <prefix>/device/<id>.
type Announcer struct {
	pub    Publisher
	topics Topics
}

// NewAnnouncer creates an Announcer publishing through pub.
func NewAnnouncer(pub Publisher, topics Topics) *Announcer {
	return &Announcer{pub: pub, topics: topics}
}

// cataloguePayload is the body of the <prefix>/devices message.
type cataloguePayload struct {
	Count   int              `json:"count"`
	Stats   catalogue.Stats  `json:"stats"`
	Devices []device.Summary `json:"devices"`
}

// Announce publishes the catalogue. Every device is attempted; the returned
// error joins all publish failures.
func (a *Announcer) Announce(ctx context.Context, registry *device.Registry, stats catalogue.Stats) error {
	devices := registry.All()

	summary := cataloguePayload{
		Count:   len(devices),
		Stats:   stats,
		Devices: make([]device.Summary, 0, len(devices)),
	}
	for _, d := range devices {
		summary.Devices = append(summary.Devices, d.Summary())
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding catalogue: %w", err)
	}
	if err := a.pub.PublishRetained(a.topics.Devices(), data); err != nil {
		return fmt.Errorf("publishing catalogue: %w", err)
	}

	var errs []error
	for _, d := range devices {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		data, err := json.Marshal(d.Detail())
		if err != nil {
			errs = append(errs, fmt.Errorf("encoding device %s: %w", d.ID, err))
			continue
		}
		if err := a.pub.PublishRetained(a.topics.Device(d.ID), data); err != nil {
			errs = append(errs, fmt.Errorf("publishing device %s: %w", d.ID, err))
		}
	}
	return errors.Join(errs...)
}
