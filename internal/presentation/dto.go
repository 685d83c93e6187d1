package presentation

import (
	"strings"

	"github.com/zjrosen/settingsdef/internal/settings"
)

// CatalogDTO represents a catalog for presentation
type CatalogDTO struct {
	Name     string       `json:"name"`
	Count    int          `json:"count"`
	Settings []SettingDTO `json:"settings"`
}

// SettingDTO represents one catalog entry for presentation
type SettingDTO struct {
	Key          string          `json:"key"`
	Type         string          `json:"type"`
	Label        string          `json:"label"`
	Tooltip      string          `json:"tooltip,omitempty"`
	Default      *settings.Value `json:"default,omitempty"`
	Control      string          `json:"control"`
	Unit         string          `json:"unit,omitempty"`
	Min          *float64        `json:"min,omitempty"`
	Max          *float64        `json:"max,omitempty"`
	Step         *float64        `json:"step,omitempty"`
	Options      []string        `json:"options,omitempty"`
	ReverseOrder bool            `json:"reverse_order,omitempty"`
	Order        int             `json:"order"`
	Flags        []string        `json:"flags"` // always present, empty when none
	ID           string          `json:"id,omitempty"`
}

// FromCatalog converts a catalog to a DTO. Entries appear in display order
// (by Order, then insertion); keys bound to no metadata are skipped.
func FromCatalog(name string, c *settings.Catalog) CatalogDTO {
	sorted := c.Sorted()
	dto := CatalogDTO{
		Name:     name,
		Count:    len(sorted),
		Settings: make([]SettingDTO, 0, len(sorted)),
	}
	for _, m := range sorted {
		dto.Settings = append(dto.Settings, FromMetadata(m))
	}
	return dto
}

// FromMetadata converts one entry to a DTO.
func FromMetadata(m *settings.Metadata) SettingDTO {
	dto := SettingDTO{
		Key:     m.Key,
		Type:    m.Type.String(),
		Label:   m.Label,
		Tooltip: m.Tooltip,
		Default: m.Default,
		Control: settings.ControlAuto.String(),
		Order:   m.Order,
		Flags:   flagNames(m.Flags),
		ID:      m.ID,
	}
	if ui := m.UI; ui != nil {
		dto.Control = ui.Control.String()
		dto.Unit = ui.Unit
		dto.Min, dto.Max, dto.Step = ui.Min, ui.Max, ui.Step
		dto.Options = ui.Options
		dto.ReverseOrder = ui.ReverseOrder
	}
	return dto
}

func flagNames(f settings.Flags) []string {
	if f == settings.FlagNone {
		return []string{}
	}
	return strings.Split(f.String(), "|")
}
