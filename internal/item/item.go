// Package item provides the host item tree that supplies configuration
// directives to the compiler.
//
// Items are loaded from a YAML file. Mapping-valued keys are child items and
// scalar-valued keys are directives on the enclosing item:
//
//	living:
//	  lamp:
//	    name: Living room lamp
//	    alexa_actions: turnOn turnOff
//	    alexa_alias: Reading light, Corner lamp
//
// yields the item "living" with no directives and the item "living.lamp"
// with three. Items are visited depth-first in document order.
package item

import (
	"github.com/nerrad567/gray-logic-alexa/internal/device"
)

// Item is one entry of the item tree.
type Item struct {
	id       string
	conf     map[string]string
	keys     []string
	children []*Item
	rng      *device.Range
}

// New creates a detached item with the given directives. Directive order
// follows the order of keys in kv: key, value, key, value...
func New(id string, kv ...string) *Item {
	it := &Item{id: id, conf: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		it.SetConf(kv[i], kv[i+1])
	}
	return it
}

// ID returns the dotted path of the item.
func (it *Item) ID() string { return it.id }

// Conf returns the directive value for key.
func (it *Item) Conf(key string) (string, bool) {
	v, ok := it.conf[key]
	return v, ok
}

// SetConf sets or adds a directive.
func (it *Item) SetConf(key, value string) {
	if _, ok := it.conf[key]; !ok {
		it.keys = append(it.keys, key)
	}
	it.conf[key] = value
}

// Keys returns directive names in definition order.
func (it *Item) Keys() []string {
	out := make([]string, len(it.keys))
	copy(out, it.keys)
	return out
}

// Children returns the direct child items.
func (it *Item) Children() []*Item {
	out := make([]*Item, len(it.children))
	copy(out, it.children)
	return out
}

// Range returns the value range bound to this item.
func (it *Item) Range() (device.Range, bool) {
	if it.rng == nil {
		return device.Range{}, false
	}
	return *it.rng, true
}

// SetRange binds a value range to this item.
func (it *Item) SetRange(r device.Range) {
	it.rng = &r
}

// AddChild attaches child below it.
func (it *Item) AddChild(child *Item) {
	it.children = append(it.children, child)
}
