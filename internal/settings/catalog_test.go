package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCatalog_ZeroValue(t *testing.T) {
	var c Catalog
	require.Zero(t, c.Len())
	c.Set("a", &Metadata{Key: "a"})
	require.True(t, c.Has("a"))
	require.Equal(t, []string{"a"}, c.Keys())
}

func TestCatalog_SetKeepsPosition(t *testing.T) {
	c := NewCatalog()
	c.Set("a", &Metadata{Key: "a"})
	c.Set("b", &Metadata{Key: "b"})
	c.Set("a", &Metadata{Key: "a", Label: "again"})
	require.Equal(t, []string{"a", "b"}, c.Keys())

	m, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, "again", m.Label)
}

func TestCatalog_Delete(t *testing.T) {
	c := NewCatalog()
	c.Set("a", nil)
	c.Set("b", nil)
	require.True(t, c.Delete("a"))
	require.False(t, c.Delete("a"))
	require.Equal(t, []string{"b"}, c.Keys())
}

func TestCatalog_Sorted(t *testing.T) {
	c := NewCatalog()
	c.Set("x", &Metadata{Key: "x", Order: 20})
	c.Set("nil", nil)
	c.Set("y", &Metadata{Key: "y", Order: 10})
	c.Set("z", &Metadata{Key: "z", Order: 10})

	var keys []string
	for _, m := range c.Sorted() {
		keys = append(keys, m.Key)
	}
	require.Equal(t, []string{"y", "z", "x"}, keys, "stable by order, nil entries skipped")
}

func TestCatalog_CloneIsDeep(t *testing.T) {
	c := NewCatalog()
	c.Set("a", &Metadata{Key: "a", Label: "A"})
	cp := c.Clone()
	m, _ := cp.Get("a")
	m.Label = "changed"

	orig, _ := c.Get("a")
	require.Equal(t, "A", orig.Label)
}

func TestCatalog_JSONKeepsOrder(t *testing.T) {
	c := NewCatalog()
	for _, k := range []string{"zeta", "alpha", "mid"} {
		m := &Metadata{Key: k}
		m.Validate()
		c.Set(k, m)
	}
	data, err := json.Marshal(c)
	require.NoError(t, err)

	back := NewCatalog()
	require.NoError(t, json.Unmarshal(data, back))
	require.Equal(t, []string{"zeta", "alpha", "mid"}, back.Keys())
}

func TestCatalog_JSONNullEntry(t *testing.T) {
	back := NewCatalog()
	require.NoError(t, json.Unmarshal([]byte(`{"a": null}`), back))
	m, ok := back.Get("a")
	require.True(t, ok)
	require.Nil(t, m)

	empty := NewCatalog()
	require.NoError(t, json.Unmarshal([]byte(`null`), empty))
	require.Zero(t, empty.Len())
}

func TestCatalog_YAMLKeepsOrder(t *testing.T) {
	c := NewCatalog()
	for _, k := range []string{"b", "a", "c"} {
		c.Set(k, &Metadata{Key: k})
	}
	data, err := yaml.Marshal(c)
	require.NoError(t, err)

	back := NewCatalog()
	require.NoError(t, yaml.Unmarshal(data, back))
	require.Equal(t, []string{"b", "a", "c"}, back.Keys())
}
