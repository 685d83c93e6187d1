package settings

import (
	"fmt"
	"math/bits"
	"strings"
)

// ValueType declares the intended semantics of a setting's value.
// It is not checked against Default.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeEnum
	TypeColor
	TypeJSON
)

var valueTypeNames = [...]string{
	TypeBool:   "Bool",
	TypeInt:    "Int",
	TypeFloat:  "Float",
	TypeString: "String",
	TypeEnum:   "Enum",
	TypeColor:  "Color",
	TypeJSON:   "Json",
}

func (t ValueType) String() string {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
	return valueTypeNames[t]
}

// ParseValueType parses a type name case-insensitively.
func ParseValueType(s string) (ValueType, error) {
	s = strings.TrimSpace(s)
	for i, name := range valueTypeNames {
		if strings.EqualFold(name, s) {
			return ValueType(i), nil
		}
	}
	return TypeBool, fmt.Errorf("unknown value type %q", s)
}

func (t ValueType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(valueTypeNames) {
		return nil, fmt.Errorf("invalid value type %d", int(t))
	}
	return []byte(valueTypeNames[t]), nil
}

func (t *ValueType) UnmarshalText(text []byte) error {
	parsed, err := ParseValueType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Flags is a combinable set of lifecycle markers.
type Flags uint8

const (
	FlagRestartRequired Flags = 1 << iota
	FlagHidden
	FlagAdvanced
	FlagReadOnly

	FlagNone Flags = 0
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagRestartRequired, "RestartRequired"},
	{FlagHidden, "Hidden"},
	{FlagAdvanced, "Advanced"},
	{FlagReadOnly, "ReadOnly"},
}

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Count returns the number of set flags.
func (f Flags) Count() int { return bits.OnesCount8(uint8(f)) }

// String renders flags as "RestartRequired|Hidden", or "None".
func (f Flags) String() string {
	if f == FlagNone {
		return "None"
	}
	var parts []string
	rest := f
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseFlags parses a "|" or "," separated list of flag names.
func ParseFlags(s string) (Flags, error) {
	var out Flags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "None") {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if strings.EqualFold(fn.name, squashSeparators(part)) {
				out |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return FlagNone, fmt.Errorf("unknown flag %q", part)
		}
	}
	return out, nil
}

func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Flags) UnmarshalText(text []byte) error {
	parsed, err := ParseFlags(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnnamedLabel labels entries whose key has no usable segment.
const UnnamedLabel = "Unnamed"

// squashSeparators drops '_' and '-' so "read_only" matches "ReadOnly".
func squashSeparators(s string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}

// Metadata is one catalog entry.
type Metadata struct {
	// Key is the hierarchical path, e.g. "Controls/Mouse/Sensitivity".
	Key  string    `json:"key" yaml:"key"`
	Type ValueType `json:"type" yaml:"type"`
	// Label is derived from the last Key segment when blank.
	Label   string        `json:"label" yaml:"label"`
	Tooltip string        `json:"tooltip" yaml:"tooltip"`
	Default *Value        `json:"default,omitempty" yaml:"default,omitempty"`
	UI      *UIDefinition `json:"ui" yaml:"ui"`
	Order   int           `json:"order" yaml:"order"`
	Flags   Flags         `json:"flags" yaml:"flags"`
	// ID is an optional stable identifier independent of Key. Empty means absent.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Validate normalizes the entry in place. It never fails and applying it
// twice has the same effect as applying it once.
func (m *Metadata) Validate() {
	m.Key = strings.TrimSpace(m.Key)
	m.ID = strings.TrimSpace(m.ID)

	if strings.TrimSpace(m.Label) == "" {
		m.Label = Labelize(LastSegment(m.Key))
		if m.Label == "" {
			m.Label = UnnamedLabel
		}
	}

	if m.UI == nil {
		m.UI = &UIDefinition{}
	}
	m.UI.Validate()
}

// HasDefault reports whether a default value is set.
func (m *Metadata) HasDefault() bool { return m.Default != nil }

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	if m == nil {
		return nil
	}
	cp := *m
	if m.Default != nil {
		d := *m.Default
		cp.Default = &d
	}
	cp.UI = m.UI.Clone()
	return &cp
}
