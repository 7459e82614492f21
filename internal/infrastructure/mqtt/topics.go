package mqtt

import (
	"net/url"
	"strings"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "graylogic/alexa"

// Topics provides builders for the bridge's MQTT topics.
// All topics live under a single configurable prefix:
//
//	topics := mqtt.NewTopics("graylogic/alexa")
//	topics.Device("kitchen-light")
//	// Returns: "graylogic/alexa/device/kitchen-light"
type Topics struct {
	prefix string
}

// NewTopics returns topic builders rooted at prefix. Trailing slashes are
// dropped and an empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic root.
func (t Topics) Prefix() string {
	if t.prefix == "" {
		return DefaultTopicPrefix
	}
	return t.prefix
}

// Status returns the retained online/offline status topic.
//
// Example: graylogic/alexa/status
func (t Topics) Status() string {
	return t.Prefix() + "/status"
}

// Devices returns the retained catalogue summary topic.
//
// Example: graylogic/alexa/devices
func (t Topics) Devices() string {
	return t.Prefix() + "/devices"
}

// Device returns the retained topic for one device. The ID is escaped so
// that '/' and '#' in endpoint IDs cannot change the topic structure.
//
// Example: graylogic/alexa/device/kitchen-light
func (t Topics) Device(id string) string {
	return t.Prefix() + "/device/" + url.PathEscape(id)
}
