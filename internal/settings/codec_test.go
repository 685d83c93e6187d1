package settings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleCatalog() *Catalog {
	c := NewCatalog()
	b := NewBuilder(&Metadata{Key: "Controls/Mouse/Sensitivity", Type: TypeFloat}).
		SetSlider(0, 100, 5).
		SetDefault(Float(50)).
		SetOrder(10)
	b.Metadata().Validate()
	c.Set(b.Key(), b.Metadata())

	o := NewBuilder(&Metadata{Key: "Controls/Input", Type: TypeEnum}).
		SetOptions([]string{"Gamepad", "Keyboard"}, false).
		SetDefault(String("Gamepad")).
		SetFlags(FlagRestartRequired | FlagAdvanced)
	o.Metadata().Validate()
	c.Set(o.Key(), o.Metadata())
	return c
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatYAML, "yml": FormatYAML, "YAML": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseFormat("toml")
	require.Error(t, err)
	require.Equal(t, ".json", FormatJSON.Ext())
	require.Equal(t, ".yaml", FormatYAML.Ext())
}

func TestCatalogCodec_RoundTrip(t *testing.T) {
	for _, f := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			codec := CatalogCodec{Format: f}
			orig := sampleCatalog()

			data, err := codec.Encode(orig)
			require.NoError(t, err)

			back, err := codec.Decode(data)
			require.NoError(t, err)
			require.Equal(t, orig.Keys(), back.Keys())
			for k, m := range orig.All() {
				got, ok := back.Get(k)
				require.True(t, ok)
				require.Equal(t, m.Type, got.Type)
				require.Equal(t, m.Label, got.Label)
				require.Equal(t, m.Flags, got.Flags)
				require.Equal(t, m.UI, got.UI)
				require.True(t, m.Default.Equal(*got.Default), "default %s vs %s", m.Default, got.Default)
			}
		})
	}
}

func TestCatalogCodec_DecodeEmpty(t *testing.T) {
	c, err := CatalogCodec{Format: FormatYAML}.Decode([]byte("  \n"))
	require.NoError(t, err)
	require.Zero(t, c.Len())
}

func TestCatalogCodec_DecodeGarbage(t *testing.T) {
	_, err := CatalogCodec{Format: FormatJSON}.Decode([]byte("{not json"))
	require.Error(t, err)
}

func TestCatalogCodec_UnsupportedFormat(t *testing.T) {
	_, err := CatalogCodec{Format: "toml"}.Encode(NewCatalog())
	require.Error(t, err)
}
