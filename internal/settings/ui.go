package settings

import (
	"fmt"
	"slices"
	"strings"
)

// Control is the rendering hint attached to a setting.
type Control int

const (
	ControlAuto Control = iota
	ControlSlider
	ControlDropdown
	ControlToggle
	ControlInputField
)

var controlNames = [...]string{
	ControlAuto:       "Auto",
	ControlSlider:     "Slider",
	ControlDropdown:   "Dropdown",
	ControlToggle:     "Toggle",
	ControlInputField: "InputField",
}

func (c Control) String() string {
	if c < 0 || int(c) >= len(controlNames) {
		return fmt.Sprintf("Control(%d)", int(c))
	}
	return controlNames[c]
}

// ParseControl parses a control name case-insensitively.
func ParseControl(s string) (Control, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ControlAuto, nil
	}
	for i, name := range controlNames {
		if strings.EqualFold(name, squashSeparators(s)) {
			return Control(i), nil
		}
	}
	return ControlAuto, fmt.Errorf("unknown control %q", s)
}

func (c Control) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(controlNames) {
		return nil, fmt.Errorf("invalid control %d", int(c))
	}
	return []byte(controlNames[c]), nil
}

func (c *Control) UnmarshalText(text []byte) error {
	parsed, err := ParseControl(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UIDefinition holds per-setting rendering hints. Min, Max and Step only
// matter for sliders; Options and ReverseOrder only for dropdowns.
type UIDefinition struct {
	Control Control  `json:"control" yaml:"control"`
	Unit    string   `json:"unit" yaml:"unit"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step    *float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Options []string `json:"options" yaml:"options"`
	// ReverseOrder asks the renderer to list Options back to front.
	// The catalog never reorders Options itself.
	ReverseOrder bool `json:"reverseOrder,omitempty" yaml:"reverseOrder,omitempty"`
}

// Validate normalizes missing fields. It never fails.
func (u *UIDefinition) Validate() {
	if u.Options == nil {
		u.Options = []string{}
	}
}

// Clone returns a deep copy.
func (u *UIDefinition) Clone() *UIDefinition {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Min = clonePtr(u.Min)
	cp.Max = clonePtr(u.Max)
	cp.Step = clonePtr(u.Step)
	if u.Options != nil {
		cp.Options = slices.Clone(u.Options)
	}
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
