package settings

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMetadata_ValidateDerivesLabel(t *testing.T) {
	m := &Metadata{Key: "Controls/Mouse/Sensitivity"}
	m.Validate()
	require.Equal(t, "Sensitivity", m.Label)
	require.NotNil(t, m.UI)
	require.NotNil(t, m.UI.Options)
}

func TestMetadata_ValidateKeepsLabel(t *testing.T) {
	m := &Metadata{Key: "a/b", Label: "Custom"}
	m.Validate()
	require.Equal(t, "Custom", m.Label)
}

func TestMetadata_ValidateTrims(t *testing.T) {
	m := &Metadata{Key: "  Graphics/VSync \t", ID: "  abc "}
	m.Validate()
	require.Equal(t, "Graphics/VSync", m.Key)
	require.Equal(t, "abc", m.ID)
}

func TestMetadata_ValidateEmptyKey(t *testing.T) {
	m := &Metadata{}
	m.Validate()
	require.Equal(t, UnnamedLabel, m.Label, "a degenerate key still gets a visible label")
}

func TestMetadata_Clone(t *testing.T) {
	d := Int(3)
	m := &Metadata{Key: "k", Default: &d, UI: &UIDefinition{Options: []string{"a"}}}
	cp := m.Clone()
	cp.UI.Options[0] = "b"
	*cp.Default = Int(4)
	require.Equal(t, "a", m.UI.Options[0])
	require.True(t, m.Default.Equal(Int(3)))
	require.Nil(t, (*Metadata)(nil).Clone())
}

func TestFlags(t *testing.T) {
	f := FlagRestartRequired | FlagHidden
	require.True(t, f.Has(FlagHidden))
	require.False(t, f.Has(FlagReadOnly))
	require.Equal(t, 2, f.Count())
	require.Equal(t, "RestartRequired|Hidden", f.String())
	require.Equal(t, "None", FlagNone.String())

	parsed, err := ParseFlags("hidden, read_only")
	require.NoError(t, err)
	require.Equal(t, FlagHidden|FlagReadOnly, parsed)

	_, err = ParseFlags("Bogus")
	require.Error(t, err)
}

func TestValueType_Text(t *testing.T) {
	for _, vt := range []ValueType{TypeBool, TypeInt, TypeFloat, TypeString, TypeEnum, TypeColor, TypeJSON} {
		text, err := vt.MarshalText()
		require.NoError(t, err)
		var back ValueType
		require.NoError(t, back.UnmarshalText(text))
		require.Equal(t, vt, back)
	}
	require.Equal(t, "Json", TypeJSON.String())

	_, err := ParseValueType("quaternion")
	require.Error(t, err)
}

func TestControl_Parse(t *testing.T) {
	c, err := ParseControl("input_field")
	require.NoError(t, err)
	require.Equal(t, ControlInputField, c)

	c, err = ParseControl("SLIDER")
	require.NoError(t, err)
	require.Equal(t, ControlSlider, c)
}

func metadataGen() *rapid.Generator[*Metadata] {
	return rapid.Custom(func(t *rapid.T) *Metadata {
		m := &Metadata{
			Key:     rapid.StringMatching(`[ ]?[A-Za-z/_ ]{0,20}[ ]?`).Draw(t, "key"),
			Type:    ValueType(rapid.IntRange(int(TypeBool), int(TypeJSON)).Draw(t, "type")),
			Label:   rapid.SampledFrom([]string{"", " ", "Label"}).Draw(t, "label"),
			Tooltip: rapid.String().Draw(t, "tooltip"),
			Order:   rapid.Int().Draw(t, "order"),
			Flags:   Flags(rapid.Uint8Range(0, 15).Draw(t, "flags")),
			ID:      rapid.SampledFrom([]string{"", "  ", " id "}).Draw(t, "id"),
		}
		if rapid.Bool().Draw(t, "hasUI") {
			m.UI = &UIDefinition{Control: Control(rapid.IntRange(0, 4).Draw(t, "control"))}
		}
		return m
	})
}

func TestMetadata_ValidateIdempotent_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := metadataGen().Draw(t, "m")
		m.Validate()
		once := m.Clone()
		m.Validate()
		require.Equal(t, once, m)
		require.NotEmpty(t, m.Label)
	})
}

func TestMetadata_LabelIgnoresParents_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		leaf := rapid.StringMatching(`[A-Za-z][A-Za-z0-9]{0,10}`).Draw(t, "leaf")
		p1 := rapid.StringMatching(`[A-Za-z]{1,8}`).Draw(t, "p1")
		p2 := rapid.StringMatching(`[A-Za-z]{1,8}`).Draw(t, "p2")

		a := &Metadata{Key: p1 + "/" + leaf}
		b := &Metadata{Key: p2 + "/" + p1 + "/" + leaf}
		a.Validate()
		b.Validate()
		require.Equal(t, a.Label, b.Label)
		require.Equal(t, Labelize(leaf), a.Label)
	})
}
