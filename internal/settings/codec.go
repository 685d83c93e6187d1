package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the on-disk encoding of a catalog.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported catalog format %q", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yaml"
}

// CatalogCodec encodes catalogs for a profile store.
type CatalogCodec struct {
	Format Format
}

// Empty returns a fresh catalog.
func (CatalogCodec) Empty() *Catalog {
	return NewCatalog()
}

// Encode serializes c.
func (cc CatalogCodec) Encode(c *Catalog) ([]byte, error) {
	if c == nil {
		c = NewCatalog()
	}
	switch cc.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML, "":
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(c); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", cc.Format)
	}
}

// Decode parses data. Empty input yields an empty catalog.
func (cc CatalogCodec) Decode(data []byte) (*Catalog, error) {
	c := NewCatalog()
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}
	switch cc.Format {
	case FormatJSON:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, err
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", cc.Format)
	}
	return c, nil
}
