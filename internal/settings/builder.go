package settings

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Builder is a fluent handle on one catalog entry. It is cheap to copy;
// every copy writes to the same underlying Metadata. Mutators take effect
// immediately and do not re-validate the entry.
type Builder struct {
	m *Metadata
}

// NewBuilder wraps m. Most callers get a Builder from
// Definition.GetOrCreateSetting instead.
func NewBuilder(m *Metadata) Builder {
	return Builder{m: m}
}

// Metadata returns the bound entry.
func (b Builder) Metadata() *Metadata { return b.m }

// Key returns the bound entry's key.
func (b Builder) Key() string { return b.m.Key }

func (b Builder) SetLabel(label string) Builder {
	b.m.Label = label
	return b
}

func (b Builder) SetTooltip(tooltip string) Builder {
	b.m.Tooltip = tooltip
	return b
}

func (b Builder) SetOrder(order int) Builder {
	b.m.Order = order
	return b
}

// SetFlags replaces the entry's flags.
func (b Builder) SetFlags(flags Flags) Builder {
	b.m.Flags = flags
	return b
}

// SetID sets the stable identifier.
func (b Builder) SetID(id string) Builder {
	b.m.ID = id
	return b
}

// EnsureID assigns a random UUID when the entry has no identifier yet.
func (b Builder) EnsureID() Builder {
	if strings.TrimSpace(b.m.ID) == "" {
		b.m.ID = uuid.NewString()
	}
	return b
}

func (b Builder) ui() *UIDefinition {
	if b.m.UI == nil {
		b.m.UI = &UIDefinition{}
	}
	return b.m.UI
}

// SetSlider renders the entry as a slider. The unit is only changed when
// one is passed.
func (b Builder) SetSlider(min, max, step float64, unit ...string) Builder {
	ui := b.ui()
	ui.Control = ControlSlider
	ui.Min = &min
	ui.Max = &max
	ui.Step = &step
	if len(unit) > 0 {
		ui.Unit = unit[0]
	}
	return b
}

// SetOptions renders the entry as a dropdown over a copy of options.
func (b Builder) SetOptions(options []string, reverseOrder bool) Builder {
	ui := b.ui()
	ui.Control = ControlDropdown
	if options == nil {
		ui.Options = []string{}
	} else {
		ui.Options = slices.Clone(options)
	}
	ui.ReverseOrder = reverseOrder
	return b
}

func (b Builder) SetToggle() Builder {
	b.ui().Control = ControlToggle
	return b
}

func (b Builder) SetInputField() Builder {
	b.ui().Control = ControlInputField
	return b
}

// SetDefault stores v as the default. It is not checked against the
// entry's Type.
func (b Builder) SetDefault(v Value) Builder {
	b.m.Default = &v
	return b
}

// ClearDefault removes the default value.
func (b Builder) ClearDefault() Builder {
	b.m.Default = nil
	return b
}
