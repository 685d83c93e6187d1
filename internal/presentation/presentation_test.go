package presentation

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/settingsdef/internal/settings"
)

func sampleCatalog() *settings.Catalog {
	c := settings.NewCatalog()
	add := func(b settings.Builder) {
		b.Metadata().Validate()
		c.Set(b.Key(), b.Metadata())
	}
	add(settings.NewBuilder(&settings.Metadata{Key: "Graphics/VSync", Type: settings.TypeBool}).
		SetToggle().SetDefault(settings.Bool(true)).SetOrder(20).SetFlags(settings.FlagRestartRequired))
	add(settings.NewBuilder(&settings.Metadata{Key: "Controls/Mouse/Sensitivity", Type: settings.TypeFloat}).
		SetSlider(0, 100, 5, "%").SetDefault(settings.Float(50)).SetOrder(10))
	add(settings.NewBuilder(&settings.Metadata{Key: "Controls/Input", Type: settings.TypeEnum}).
		SetOptions([]string{"Gamepad", "Keyboard"}, true).SetOrder(9))
	c.Set("Ghost", nil)
	return c
}

func TestFromCatalog_DisplayOrder(t *testing.T) {
	dto := FromCatalog("game", sampleCatalog())
	require.Equal(t, "game", dto.Name)
	require.Equal(t, 3, dto.Count, "nil entries are skipped")

	var keys []string
	for _, s := range dto.Settings {
		keys = append(keys, s.Key)
	}
	require.Equal(t, []string{"Controls/Input", "Controls/Mouse/Sensitivity", "Graphics/VSync"}, keys)
}

func TestFromMetadata(t *testing.T) {
	dto := FromCatalog("game", sampleCatalog())
	vsync := dto.Settings[2]
	require.Equal(t, "Bool", vsync.Type)
	require.Equal(t, "Toggle", vsync.Control)
	require.Equal(t, []string{"RestartRequired"}, vsync.Flags)
	require.Equal(t, "V Sync", vsync.Label)

	input := dto.Settings[0]
	require.Empty(t, input.Flags)
	require.NotNil(t, input.Flags, "flags are always present")
}

func TestFormatCatalogJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatCatalogJSON(FromCatalog("game", sampleCatalog())))

	var decoded struct {
		Name     string `json:"name"`
		Count    int    `json:"count"`
		Settings []struct {
			Key     string          `json:"key"`
			Default json.RawMessage `json:"default"`
			Flags   []string        `json:"flags"`
		} `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, 3, decoded.Count)
	require.Equal(t, "50.0", string(decoded.Settings[1].Default))
	require.Nil(t, decoded.Settings[0].Default)
	require.NotNil(t, decoded.Settings[0].Flags)
}

func TestFormatCatalogTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatCatalogTable(FromCatalog("game", sampleCatalog())))

	out := buf.String()
	require.Contains(t, out, "game (3 settings)")
	require.Contains(t, out, "KEY")
	require.Contains(t, out, "Controls/Mouse/Sensitivity")
	require.Contains(t, out, "Slider 0..100 step 5 %")
	require.Contains(t, out, "Dropdown [Keyboard|Gamepad]", "reverse order is applied for display")
	require.Contains(t, out, "RestartRequired")
}

func TestDescribeControl_MissingBounds(t *testing.T) {
	require.Equal(t, "Slider ?..?", describeControl(SettingDTO{Control: "Slider"}))
	require.Equal(t, "Auto", describeControl(SettingDTO{Control: "Auto"}))
}
