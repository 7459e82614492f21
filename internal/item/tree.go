package item

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Domain errors for the item package.
var (
	// ErrInvalidTree is returned when the item file has an unsupported shape.
	ErrInvalidTree = errors.New("item: invalid tree")

	// ErrDuplicateKey is returned when a key appears twice in one item.
	ErrDuplicateKey = errors.New("item: duplicate key")
)

// maxDepth bounds item nesting to keep alias loops and hostile files in check.
const maxDepth = 32

// Tree is the loaded item hierarchy.
type Tree struct {
	roots []*Item
	byID  map[string]*Item
	order []*Item
}

// Load reads an item tree from a YAML file.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing item file %s: %w", path, err)
	}
	return t, nil
}

// Parse builds an item tree from YAML. Multiple documents are merged in
// order, as if concatenated into one file.
func Parse(data []byte) (*Tree, error) {
	t := &Tree{byID: make(map[string]*Item)}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTree, err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		root := resolve(doc.Content[0])
		if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
			continue
		}
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: top level must be a mapping (line %d)", ErrInvalidTree, root.Line)
		}
		if err := t.walkMapping(root, nil, 0); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// walkMapping turns the key/value pairs of n into directives of parent or,
// for mapping values, into child items.
func (t *Tree) walkMapping(n *yaml.Node, parent *Item, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: nesting exceeds %d levels (line %d)", ErrInvalidTree, maxDepth, n.Line)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], resolve(n.Content[i+1])
		key := keyNode.Value

		switch valNode.Kind {
		case yaml.MappingNode:
			child, err := t.addItem(parent, key, keyNode.Line)
			if err != nil {
				return err
			}
			if err := t.walkMapping(valNode, child, depth+1); err != nil {
				return err
			}

		case yaml.ScalarNode:
			if parent == nil {
				// A scalar at top level is an empty item.
				if _, err := t.addItem(nil, key, keyNode.Line); err != nil {
					return err
				}
				continue
			}
			if _, dup := parent.conf[key]; dup {
				return fmt.Errorf("%w: %s.%s (line %d)", ErrDuplicateKey, parent.id, key, keyNode.Line)
			}
			value := valNode.Value
			if valNode.Tag == "!!null" {
				value = ""
			}
			parent.SetConf(key, value)

		default:
			return fmt.Errorf("%w: unsupported value for %q (line %d)", ErrInvalidTree, key, keyNode.Line)
		}
	}
	return nil
}

func (t *Tree) addItem(parent *Item, key string, line int) (*Item, error) {
	id := key
	if parent != nil {
		id = parent.id + "." + key
	}
	if _, dup := t.byID[id]; dup {
		return nil, fmt.Errorf("%w: item %s (line %d)", ErrDuplicateKey, id, line)
	}

	it := &Item{id: id, conf: make(map[string]string)}
	t.byID[id] = it
	t.order = append(t.order, it)
	if parent == nil {
		t.roots = append(t.roots, it)
	} else {
		parent.AddChild(it)
	}
	return it, nil
}

// resolve follows YAML aliases to their anchored node.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// Items returns every item depth-first in document order.
func (t *Tree) Items() []*Item {
	out := make([]*Item, len(t.order))
	copy(out, t.order)
	return out
}

// Roots returns the top-level items.
func (t *Tree) Roots() []*Item {
	out := make([]*Item, len(t.roots))
	copy(out, t.roots)
	return out
}

// Find returns the item with the given dotted ID.
func (t *Tree) Find(id string) (*Item, bool) {
	it, ok := t.byID[id]
	return it, ok
}

// Len returns the number of items.
func (t *Tree) Len() int {
	return len(t.order)
}
