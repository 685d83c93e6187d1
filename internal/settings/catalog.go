package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog maps setting keys to their metadata, keeping insertion order.
// The zero value is an empty catalog ready to use. A Catalog is not safe
// for concurrent mutation.
type Catalog struct {
	keys    []string
	entries map[string]*Metadata
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*Metadata)}
}

// Len returns the number of keys, including keys bound to a nil entry.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Get returns the entry for key. The entry may be nil when the key was
// stored without metadata (for example a decoded null).
func (c *Catalog) Get(key string) (*Metadata, bool) {
	if c == nil {
		return nil, false
	}
	m, ok := c.entries[key]
	return m, ok
}

// Has reports whether key is present.
func (c *Catalog) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set binds key to m. An existing key keeps its position.
func (c *Catalog) Set(key string, m *Metadata) {
	if c.entries == nil {
		c.entries = make(map[string]*Metadata)
	}
	if _, ok := c.entries[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = m
}

// Delete removes key and reports whether it was present.
func (c *Catalog) Delete(key string) bool {
	if c == nil {
		return false
	}
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in insertion order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// All iterates entries in insertion order.
func (c *Catalog) All() iter.Seq2[string, *Metadata] {
	return func(yield func(string, *Metadata) bool) {
		if c == nil {
			return
		}
		for _, k := range c.keys {
			if !yield(k, c.entries[k]) {
				return
			}
		}
	}
}

// Sorted returns the non-nil entries ordered by Order, ties broken by
// insertion order.
func (c *Catalog) Sorted() []*Metadata {
	out := make([]*Metadata, 0, c.Len())
	for _, m := range c.All() {
		if m != nil {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Clone returns a deep copy.
func (c *Catalog) Clone() *Catalog {
	cp := NewCatalog()
	for k, m := range c.All() {
		cp.Set(k, m.Clone())
	}
	return cp
}

// MarshalJSON writes the catalog as a JSON object in insertion order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, m := range c.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping key order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	*c = Catalog{entries: make(map[string]*Metadata)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected key, got %v", tok)
		}
		var m *Metadata
		if err := dec.Decode(&m); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		c.Set(key, m)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalYAML writes the catalog as an ordered YAML mapping.
func (c *Catalog) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, m := range c.All() {
		val := &yaml.Node{}
		if m == nil {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		} else if err := val.Encode(m); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			val,
		)
	}
	return node, nil
}

// UnmarshalYAML reads an ordered YAML mapping.
func (c *Catalog) UnmarshalYAML(node *yaml.Node) error {
	*c = Catalog{entries: make(map[string]*Metadata)}

	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("catalog: expected mapping at line %d", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		if val.Kind == yaml.ScalarNode && val.ShortTag() == "!!null" {
			c.Set(key, nil)
			continue
		}
		var m Metadata
		if err := val.Decode(&m); err != nil {
			return fmt.Errorf("decoding %q: %w", key, err)
		}
		c.Set(key, &m)
	}
	return nil
}
