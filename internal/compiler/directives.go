package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/gray-logic-alexa/internal/device"
)

// Directive names recognised on configuration entries.
const (
	DirDevice              = "alexa_device"
	DirActions             = "alexa_actions"
	DirName                = "alexa_name"
	DirItemName            = "name"
	DirTypes               = "alexa_types"
	DirDescription         = "alexa_description"
	DirAlias               = "alexa_alias"
	DirRange               = "alexa_item_range"
	DirTurnOn              = "alexa_item_turn_on"
	DirTurnOff             = "alexa_item_turn_off"
	DirColorValueType      = "alexa_color_value_type"
	DirProxyURI            = "alexa_csc_proxy_uri"
	DirCameraURI           = "alexa_csc_uri"
	DirAuthCred            = "alexa_auth_cred"
	DirCameraImageURI      = "alexa_camera_imageUri"
	DirThermoConfig        = "alexa_thermo_config"
	DirIcon                = "alexa_icon"
	DirRetrievable         = "alexa_retrievable"
	DirProactivelyReported = "alexa_proactivelyReported"
)

// Shape is the declared value shape of a directive.
type Shape int

// Directive shapes.
const (
	// ShapeText is a trimmed string.
	ShapeText Shape = iota
	// ShapeWords is a whitespace-separated list.
	ShapeWords
	// ShapeCommaList is a comma-separated list; blank elements are dropped.
	ShapeCommaList
	// ShapeRange is "<min>-<max>" with floating-point bounds.
	ShapeRange
	// ShapeBool is a yes/no style flag.
	ShapeBool
	// ShapeStream is a JSON camera stream descriptor.
	ShapeStream
	// ShapeURIMap is a JSON object of stream name to URI.
	ShapeURIMap
	// ShapeModes is a list of value:MODE pairs.
	ShapeModes
)

var shapeNames = map[Shape]string{
	ShapeText:      "text",
	ShapeWords:     "words",
	ShapeCommaList: "comma-list",
	ShapeRange:     "range",
	ShapeBool:      "bool",
	ShapeStream:    "stream",
	ShapeURIMap:    "uri-map",
	ShapeModes:     "modes",
}

// String returns the shape name used in logs and errors.
func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "unknown"
}

// shapes declares the expected value shape of every directive.
// Stream slot directives are added in init.
var shapes = map[string]Shape{
	DirDevice:              ShapeText,
	DirActions:             ShapeWords,
	DirName:                ShapeText,
	DirItemName:            ShapeText,
	DirTypes:               ShapeWords,
	DirDescription:         ShapeText,
	DirAlias:               ShapeCommaList,
	DirRange:               ShapeRange,
	DirTurnOn:              ShapeText,
	DirTurnOff:             ShapeText,
	DirColorValueType:      ShapeText,
	DirProxyURI:            ShapeText,
	DirCameraURI:           ShapeURIMap,
	DirAuthCred:            ShapeText,
	DirCameraImageURI:      ShapeText,
	DirThermoConfig:        ShapeModes,
	DirIcon:                ShapeText,
	DirRetrievable:         ShapeBool,
	DirProactivelyReported: ShapeBool,
}

func init() {
	for slot := 1; slot <= device.StreamSlotCount; slot++ {
		shapes[device.StreamKey(slot)] = ShapeStream
	}
}

// ShapeOf returns the declared shape of directive.
func ShapeOf(directive string) (Shape, bool) {
	s, ok := shapes[directive]
	return s, ok
}

// Value is a parsed directive value. Only the field matching Shape is set.
type Value struct {
	Shape  Shape
	Text   string
	List   []string
	Range  device.Range
	Bool   bool
	Stream device.CameraStream
	URIs   map[string]string
	Modes  device.ThermoModes
}

// ParseDirective parses raw according to the declared shape of directive.
// Invalid values yield a *ParseError wrapping ErrInvalidDirective.
func ParseDirective(directive, raw string) (Value, error) {
	shape, ok := shapes[directive]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownDirective, directive)
	}

	v := Value{Shape: shape}
	var err error

	switch shape {
	case ShapeText:
		v.Text = strings.TrimSpace(raw)
	case ShapeWords:
		v.List = strings.Fields(raw)
	case ShapeCommaList:
		v.List = splitComma(raw)
	case ShapeRange:
		v.Range, err = parseRange(raw)
	case ShapeBool:
		v.Bool, err = parseBool(raw)
	case ShapeStream:
		v.Stream, err = parseStream(raw)
	case ShapeURIMap:
		v.URIs, err = parseURIMap(raw)
	case ShapeModes:
		v.Modes, err = parseModes(raw)
	}

	if err != nil {
		return Value{}, &ParseError{Directive: directive, Shape: shape, Raw: raw, Err: err}
	}
	return v, nil
}

func splitComma(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseRange parses "<min>-<max>". The separator is the first '-' after the
// first character, so a negative minimum like "-10 - 30" is accepted.
func parseRange(raw string) (device.Range, error) {
	s := strings.TrimSpace(raw)
	if len(s) < 3 {
		return device.Range{}, errors.New("expected <min>-<max>")
	}
	idx := strings.Index(s[1:], "-")
	if idx < 0 {
		return device.Range{}, errors.New("expected <min>-<max>")
	}
	idx++

	lo, err := strconv.ParseFloat(strings.TrimSpace(s[:idx]), 64)
	if err != nil {
		return device.Range{}, fmt.Errorf("min: %w", err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(s[idx+1:]), 64)
	if err != nil {
		return device.Range{}, fmt.Errorf("max: %w", err)
	}
	return device.NumericRange(lo, hi), nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", raw)
}

// decodeObject unmarshals a JSON object into out, rejecting other JSON kinds.
func decodeObject(raw string, out any) error {
	b := bytes.TrimSpace([]byte(raw))
	if len(b) == 0 || b[0] != '{' {
		return errors.New("expected a JSON object")
	}
	return json.Unmarshal(b, out)
}

func parseStream(raw string) (device.CameraStream, error) {
	var s device.CameraStream
	if err := decodeObject(raw, &s); err != nil {
		return device.CameraStream{}, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return device.CameraStream{}, err
	}
	s.Raw = buf.Bytes()
	return s, nil
}

func parseURIMap(raw string) (map[string]string, error) {
	m := make(map[string]string)
	if err := decodeObject(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// parseModes parses "0:AUTO 1:HEAT 2:COOL" (commas also separate pairs).
func parseModes(raw string) (device.ThermoModes, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, errors.New("no modes")
	}

	modes := make(device.ThermoModes, len(fields))
	for _, f := range fields {
		value, mode, ok := strings.Cut(f, ":")
		if !ok || value == "" || mode == "" {
			return nil, fmt.Errorf("expected value:MODE, got %q", f)
		}
		modes[value] = strings.ToUpper(mode)
	}
	return modes, nil
}
