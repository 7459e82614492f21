// Package compiler turns configuration entries into device records.
//
// Each entry carries a set of directives (alexa_device, alexa_actions,
// alexa_name and so on). The compiler parses every recognised directive
// against its declared shape, gets or creates the referenced device in the
// registry, and merges the values into it according to device.FieldPolicies.
// Unrecognised directives are ignored.
//
// Compile never returns an error. Its Outcome says whether the entry
// contributed to a device, was skipped because it names no device, or was
// rejected because it declared an unknown action.
package compiler

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-alexa/internal/action"
	"github.com/nerrad567/gray-logic-alexa/internal/device"
)

// Logger is the logging interface used by the compiler.
type Logger = device.Logger

// Vocabulary resolves action names.
type Vocabulary interface {
	Lookup(name string) (action.Action, bool)
}

// Entry is one configuration entry. SetConf is used to write the generated
// proxy URL directives back so the service can bind routes to them.
type Entry interface {
	device.Entry
	Conf(key string) (string, bool)
	SetConf(key, value string)
	SetRange(r device.Range)
}

// Outcome is the result of compiling one entry.
type Outcome int

// Compile outcomes.
const (
	// OutcomeCompiled means the entry was merged into a device.
	OutcomeCompiled Outcome = iota
	// OutcomeSkipped means the entry names no device.
	OutcomeSkipped
	// OutcomeRejected means the entry was discarded, usually for an unknown action.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompiled:
		return "compiled"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Compiler merges configuration entries into a device registry.
type Compiler struct {
	registry *device.Registry
	actions  Vocabulary
	logger   Logger
	newToken func() string
}

// New creates a compiler writing into registry and checking action names
// against actions.
func New(registry *device.Registry, actions Vocabulary) *Compiler {
	return &Compiler{
		registry: registry,
		actions:  actions,
		logger:   device.NopLogger(),
		newToken: NewToken,
	}
}

// SetLogger sets the logger for compiler diagnostics.
func (c *Compiler) SetLogger(logger Logger) {
	if logger == nil {
		logger = device.NopLogger()
	}
	c.logger = logger
}

// SetTokenSource replaces the proxy token generator.
func (c *Compiler) SetTokenSource(fn func() string) {
	if fn == nil {
		fn = NewToken
	}
	c.newToken = fn
}

// NewToken returns a random proxy token: a version 4 UUID as 32 hex characters.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ProxyURL joins a proxy base URI and a token.
func ProxyURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/" + token
}

// Compile merges one entry into the registry.
func (c *Compiler) Compile(entry Entry) Outcome {
	id := entry.ID()

	deviceID := ""
	if v, ok := c.lookup(entry, DirDevice); ok {
		deviceID = v.Text
	}

	var actionNames []string
	if v, ok := c.lookup(entry, DirActions); ok {
		actionNames = v.List
		c.logger.Debug("actions declared", "item", id, "actions", actionNames)
		for _, name := range actionNames {
			if _, ok := c.actions.Lookup(name); !ok {
				c.logger.Error("invalid action, ignoring item", "item", id, "action", name)
				return OutcomeRejected
			}
		}
	}

	name, explicit := "", false
	if v, ok := c.lookup(entry, DirName); ok {
		name, explicit = v.Text, true
	} else if len(actionNames) > 0 {
		if v, ok := c.lookup(entry, DirItemName); ok {
			name = v.Text
		}
	}

	if deviceID == "" && name != "" {
		deviceID = device.IDFromName(name)
	}
	if deviceID == "" {
		c.logger.Debug("no device for item, skipping", "item", id)
		return OutcomeSkipped
	}

	dev, created, err := c.registry.GetOrCreate(deviceID)
	if err != nil {
		c.logger.Error("cannot get device", "item", id, "device", deviceID, "error", err)
		return OutcomeRejected
	}
	if created {
		c.logger.Debug("device created", "item", id, "device", deviceID)
	}

	c.applyIdentity(entry, dev, name, explicit)
	c.applyRange(entry)

	if v, ok := c.lookup(entry, DirColorValueType); ok {
		dev.ColorValueType = v.Text
		c.logger.Debug("color value type set", "device", deviceID, "value", v.Text)
	}

	c.applyCamera(entry, dev)
	c.applyMisc(entry, dev)

	seen := make(map[string]bool, len(actionNames))
	registered := make([]string, 0, len(actionNames))
	for _, name := range actionNames {
		if seen[name] {
			continue
		}
		seen[name] = true
		dev.Register(name, entry)
		registered = append(registered, name)
	}
	if len(registered) > 0 {
		c.logger.Info("item supports actions", "item", id, "device", deviceID, "actions", strings.Join(registered, ", "))
	}

	return OutcomeCompiled
}

func (c *Compiler) applyIdentity(entry Entry, dev *device.Device, name string, explicit bool) {
	if v, ok := c.lookup(entry, DirTypes); ok {
		dev.SetTypes(v.List)
		c.logger.Debug("device types set", "device", dev.ID, "types", v.List)
	}

	if ch := dev.SetName(name, explicit); ch.Applied {
		if ch.Conflict {
			c.logger.Warn("item is changing device name",
				"item", entry.ID(), "device", dev.ID,
				"from", ch.Previous, "to", name,
				"policy", device.FieldPolicies[device.FieldName].String())
		} else {
			c.logger.Debug("device name set", "device", dev.ID, "name", name)
		}
	}

	if v, ok := c.lookup(entry, DirDescription); ok {
		ch := dev.SetDescription(v.Text)
		if ch.Conflict {
			c.logger.Warn("item is changing device description",
				"item", entry.ID(), "device", dev.ID,
				"from", ch.Previous, "to", v.Text,
				"policy", device.FieldPolicies[device.FieldDescription].String())
		}
	}

	if v, ok := c.lookup(entry, DirAlias); ok {
		dev.AppendAlias(v.List...)
		c.logger.Debug("device alias added", "device", dev.ID, "alias", v.List)
	}
}

// applyRange binds the value range to the entry. On/off markers are applied
// after the numeric range and win when both are present.
func (c *Compiler) applyRange(entry Entry) {
	if v, ok := c.lookup(entry, DirRange); ok {
		entry.SetRange(v.Range)
		c.logger.Debug("item range set", "item", entry.ID(), "range", v.Range.String())
	}

	onV, hasOn := c.lookup(entry, DirTurnOn)
	offV, hasOff := c.lookup(entry, DirTurnOff)
	if !hasOn && !hasOff {
		return
	}

	var on, off any = true, false
	if hasOn {
		on = onV.Text
	}
	if hasOff {
		off = offV.Text
	}
	r := device.SwitchRange(on, off)
	entry.SetRange(r)
	c.logger.Debug("item on/off set", "item", entry.ID(), "range", r.String())
}

func (c *Compiler) applyCamera(entry Entry, dev *device.Device) {
	proxyBase := ""
	if v, ok := c.lookup(entry, DirProxyURI); ok {
		proxyBase = v.Text
	}

	for _, res := range c.ParseStreams(entry) {
		if res.Err != nil {
			c.logger.Debug("invalid camera stream, skipping slot", "item", entry.ID(), "directive", res.Key, "error", res.Err)
			continue
		}

		dev.SetCameraStream(res.Slot, res.Stream)
		c.logger.Debug("camera stream set", "device", dev.ID, "slot", res.Slot)

		if proxyBase == "" {
			continue
		}
		url := ProxyURL(proxyBase, c.newToken())
		dev.SetProxiedURL(res.Slot, url)
		entry.SetConf(device.ProxyKey(res.Slot), url)
		c.logger.Debug("camera proxy url generated", "device", dev.ID, "slot", res.Slot, "url", url)
	}

	if v, ok := c.lookup(entry, DirCameraURI); ok {
		dev.CameraURI = v.URIs
		c.logger.Debug("camera uri set", "device", dev.ID, "streams", len(v.URIs))
	}

	if v, ok := c.lookup(entry, DirAuthCred); ok {
		dev.AuthCred = v.Text
		c.logger.Debug("camera auth cred set", "device", dev.ID, "cred", "<redacted>")
	}

	if v, ok := c.lookup(entry, DirCameraImageURI); ok {
		dev.CameraImageURI = v.Text
		c.logger.Debug("camera image uri set", "device", dev.ID, "uri", v.Text)
	}
}

func (c *Compiler) applyMisc(entry Entry, dev *device.Device) {
	if v, ok := c.lookup(entry, DirThermoConfig); ok {
		dev.ThermoConfig = v.Modes
		c.logger.Debug("thermostat modes set", "device", dev.ID, "modes", len(v.Modes))
	}

	if v, ok := c.lookup(entry, DirIcon); ok && v.Text != "" {
		if dev.AddIcon(v.Text) {
			c.logger.Debug("device icon added", "device", dev.ID, "icon", v.Text)
		}
	}

	if v, ok := c.lookup(entry, DirRetrievable); ok {
		dev.Retrievable = v.Bool
	}

	if v, ok := c.lookup(entry, DirProactivelyReported); ok {
		dev.ProactivelyReported = v.Bool
	}
}

// StreamResult is the parse result of one camera stream slot.
type StreamResult struct {
	Slot   int
	Key    string
	Stream device.CameraStream
	Err    error
}

// ParseStreams parses every camera stream slot present on entry, in slot
// order. A failed slot carries its error and does not affect the others.
func (c *Compiler) ParseStreams(entry Entry) []StreamResult {
	var out []StreamResult
	for slot := 1; slot <= device.StreamSlotCount; slot++ {
		key := device.StreamKey(slot)
		raw, ok := entry.Conf(key)
		if !ok {
			continue
		}
		res := StreamResult{Slot: slot, Key: key}
		v, err := ParseDirective(key, raw)
		if err != nil {
			res.Err = withEntry(err, entry.ID())
		} else {
			res.Stream = v.Stream
		}
		out = append(out, res)
	}
	return out
}

// lookup fetches and parses directive from entry. Shape errors are logged
// at warn level and reported as absent.
func (c *Compiler) lookup(entry Entry, directive string) (Value, bool) {
	raw, ok := entry.Conf(directive)
	if !ok {
		return Value{}, false
	}
	v, err := ParseDirective(directive, raw)
	if err != nil {
		c.logger.Warn("ignoring invalid directive", "item", entry.ID(), "directive", directive, "error", withEntry(err, entry.ID()))
		return Value{}, false
	}
	return v, true
}

func withEntry(err error, entryID string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.EntryID = entryID
	}
	return err
}
