package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/settingsdef/internal/infrastructure/memstore"
	"github.com/zjrosen/settingsdef/internal/profile"
)

func newTestDefinition(t *testing.T) (*Definition, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	def := NewDefinition("test", store, CatalogCodec{Format: FormatYAML})
	t.Cleanup(def.Close)
	return def, store
}

func TestDefinition_BuilderChain(t *testing.T) {
	def, _ := newTestDefinition(t)

	def.GetOrCreateSetting("A", TypeFloat).SetSlider(0, 100, 5).SetTooltip("t").SetOrder(10)

	m, ok := def.Value().Get("A")
	require.True(t, ok)
	require.Equal(t, TypeFloat, m.Type)
	require.Equal(t, ControlSlider, m.UI.Control)
	require.Equal(t, 0.0, *m.UI.Min)
	require.Equal(t, 100.0, *m.UI.Max)
	require.Equal(t, 5.0, *m.UI.Step)
	require.Equal(t, "t", m.Tooltip)
	require.Equal(t, 10, m.Order)
	require.Equal(t, "A", m.Label)
}

func TestDefinition_RetypeLastWins(t *testing.T) {
	def, _ := newTestDefinition(t)
	def.GetOrCreateSetting("k", TypeInt).SetDefault(Int(3))
	def.GetOrCreateSetting("k", TypeString)

	c := def.Value()
	require.Equal(t, 1, c.Len())
	m, _ := c.Get("k")
	require.Equal(t, TypeString, m.Type)
	require.True(t, m.Default.Equal(Int(3)), "retyping leaves the existing default alone")
}

func TestDefinition_UniquenessProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		def := NewDefinition("p", memstore.New(), CatalogCodec{})
		key := rapid.StringMatching(`[A-Za-z/ ]{0,12}`).Draw(rt, "key")
		types := rapid.SliceOfN(rapid.IntRange(int(TypeBool), int(TypeJSON)), 1, 5).Draw(rt, "types")

		var last ValueType
		for _, ty := range types {
			last = ValueType(ty)
			def.GetOrCreateSetting(key, last)
		}

		c := def.Value()
		require.Equal(rt, 1, c.Len())
		for _, m := range c.All() {
			require.Equal(rt, last, m.Type)
		}
	})
}

func TestDefinition_BlankKey(t *testing.T) {
	def, _ := newTestDefinition(t)
	b := def.GetOrCreateSetting("   ", TypeBool)
	require.Equal(t, "", b.Key())
	require.Equal(t, UnnamedLabel, b.Metadata().Label)
	require.True(t, def.Value().Has(""))
}

func TestDefinition_NilEntryIsReplaced(t *testing.T) {
	def, _ := newTestDefinition(t)
	def.Value().Set("k", nil)

	b := def.GetOrCreateSetting("k", TypeInt)
	require.NotNil(t, b.Metadata())
	m, _ := def.Value().Get("k")
	require.Same(t, b.Metadata(), m)
}

func TestDefinition_MarksDirtyWithoutNotify(t *testing.T) {
	def, _ := newTestDefinition(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := def.Subscribe(ctx)

	def.GetOrCreateSetting("k", TypeBool)
	require.True(t, def.Dirty())

	select {
	case ev := <-events:
		t.Fatalf("unexpected %s event", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDefinition_SaveAndReload(t *testing.T) {
	def, store := newTestDefinition(t)
	ctx := context.Background()

	def.SetSlider("Controls/Mouse/Sensitivity", 0, 100, 5, Default(50.0)).SetOrder(10)
	require.NoError(t, def.SaveIfDirty(ctx))
	require.False(t, def.Dirty())
	require.Equal(t, 1, store.Saves())

	other := NewDefinition("test", store, CatalogCodec{Format: FormatYAML})
	m, ok := other.Value().Get("Controls/Mouse/Sensitivity")
	require.True(t, ok)
	require.True(t, m.Default.Equal(Float(50)))
	require.Equal(t, 10, m.Order)
}

type brokenStore struct{ err error }

func (b brokenStore) Load(context.Context, string) ([]byte, error) { return nil, profile.ErrNotFound }

func (b brokenStore) Save(context.Context, string, []byte) error { return b.err }

func TestDefinition_SaveErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	def := NewDefinition("x", brokenStore{err: boom}, CatalogCodec{})
	def.SetToggle("Graphics/VSync", Default(true))
	require.ErrorIs(t, def.SaveIfDirty(context.Background()), boom)
}

func TestDefinition_TypedHelpers(t *testing.T) {
	def, _ := newTestDefinition(t)

	s := def.SetIntSlider("Audio/Volume", 0, 10, 1, Unit("dB"), Default(7))
	require.Equal(t, TypeInt, s.Metadata().Type)
	require.Equal(t, "dB", s.Metadata().UI.Unit)
	require.True(t, s.Metadata().Default.Equal(Int(7)))

	tg := def.SetToggle("Graphics/VSync", Default(true))
	require.Equal(t, TypeBool, tg.Metadata().Type)
	require.Equal(t, ControlToggle, tg.Metadata().UI.Control)

	o := def.SetOptions("Controls/Input", []string{"Gamepad", "Keyboard"}, Reversed(), DefaultValue(String("Keyboard")))
	require.Equal(t, TypeEnum, o.Metadata().Type)
	require.Equal(t, ControlDropdown, o.Metadata().UI.Control)
	require.True(t, o.Metadata().UI.ReverseOrder)
	require.True(t, o.Metadata().Default.Equal(String("Keyboard")))

	f := def.SetSlider("Controls/Mouse/Sensitivity", 0, 1, 0.1)
	require.False(t, f.Metadata().HasDefault())
	require.Empty(t, f.Metadata().UI.Unit)
}

func TestDefinition_OptionsCopyIndependence(t *testing.T) {
	def, _ := newTestDefinition(t)
	opts := []string{"Gamepad", "Keyboard"}
	def.SetOptions("Controls/Input", opts)
	opts[0] = "Touch"

	m, _ := def.Value().Get("Controls/Input")
	require.Equal(t, []string{"Gamepad", "Keyboard"}, m.UI.Options)
}

func TestDefinition_DefaultRoundTrip(t *testing.T) {
	def, _ := newTestDefinition(t)
	for _, v := range []Value{Bool(true), Int(-4), Float(0.25), String("hi")} {
		b := def.GetOrCreateSetting("k", TypeJSON).SetDefault(v)
		require.True(t, b.Metadata().Default.Equal(v), "kind %s", v.Kind())
	}
}

func TestGetOrCreateDefinition_Shared(t *testing.T) {
	reg := NewRegistry()
	store := memstore.New()

	a := GetOrCreateDefinition(reg, "Game Settings", store, CatalogCodec{})
	b := GetOrCreateDefinition(reg, "game settings", store, CatalogCodec{})
	require.Same(t, a, b)
	require.Equal(t, "game_settings", a.Name())

	reg.ClearCache()
	c := GetOrCreateDefinition(reg, "game settings", store, CatalogCodec{})
	require.NotSame(t, a, c)
}
