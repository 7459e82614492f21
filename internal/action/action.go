// Package action holds the vocabulary of capability actions a device may
// declare through the alexa_actions directive.
//
// Only names are validated here; executing an action is the job of the
// runtime service.
package action

import (
	"fmt"
	"sort"
)

// Interface namespaces for actions.
const (
	NamespacePower           = "Alexa.PowerController"
	NamespaceBrightness      = "Alexa.BrightnessController"
	NamespacePercentage      = "Alexa.PercentageController"
	NamespaceColor           = "Alexa.ColorController"
	NamespaceColorTemp       = "Alexa.ColorTemperatureController"
	NamespaceThermostat      = "Alexa.ThermostatController"
	NamespaceTemperature     = "Alexa.TemperatureSensor"
	NamespaceLock            = "Alexa.LockController"
	NamespaceCameraStream    = "Alexa.CameraStreamController"
	NamespaceSpeaker         = "Alexa.Speaker"
	NamespaceRange           = "Alexa.RangeController"
	NamespaceSceneController = "Alexa.SceneController"
	NamespaceLegacy          = "Alexa.ConnectedHome.Control"
	NamespaceLegacyQuery     = "Alexa.ConnectedHome.Query"
)

// Action is one named capability operation.
type Action struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	// Response is the directive name sent back on success.
	Response string `json:"response,omitempty"`
}

// Vocabulary is a lookup table of known actions.
type Vocabulary struct {
	byName map[string]Action
}

// NewVocabulary creates a vocabulary from actions.
// Returns an error if a name is empty or defined twice.
func NewVocabulary(actions ...Action) (*Vocabulary, error) {
	v := &Vocabulary{byName: make(map[string]Action, len(actions))}
	for _, a := range actions {
		if a.Name == "" {
			return nil, fmt.Errorf("action: empty name in namespace %q", a.Namespace)
		}
		if _, dup := v.byName[a.Name]; dup {
			return nil, fmt.Errorf("action: %q defined twice", a.Name)
		}
		v.byName[a.Name] = a
	}
	return v, nil
}

// Lookup returns the action called name.
func (v *Vocabulary) Lookup(name string) (Action, bool) {
	a, ok := v.byName[name]
	return a, ok
}

// Names returns every action name, sorted.
func (v *Vocabulary) Names() []string {
	names := make([]string, 0, len(v.byName))
	for n := range v.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of actions.
func (v *Vocabulary) Len() int {
	return len(v.byName)
}
