package hcldef

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/zjrosen/settingsdef/internal/settings"
)

// Spec is one decoded setting block. Nil pointer fields were not set in the
// file and leave the catalog entry as it is.
type Spec struct {
	Key     string
	Type    settings.ValueType
	Label   *string
	Tooltip *string
	Order   *int
	Flags   *settings.Flags
	ID      *string
	Default *settings.Value

	// Control is ControlAuto when the file names none and the block has no
	// slider or options to imply one.
	Control      settings.Control
	Unit         *string
	Options      []string
	ReverseOrder bool
	Slider       *Slider
}

// Slider holds the range of a slider control.
type Slider struct {
	Min, Max, Step float64
}

// DecodeError reports every problem found in one definition file.
type DecodeError struct {
	File  string
	Diags hcl.Diagnostics
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %s", e.File, e.Diags.Error())
}

func (e *DecodeError) Unwrap() error { return e.Diags }

// Parse decodes definition source. filename is used in diagnostics only.
func Parse(src []byte, filename string) ([]Spec, error) {
	return parseBytes(hclparse.NewParser(), src, filename)
}

func parseBytes(parser *hclparse.Parser, src []byte, filename string) ([]Spec, error) {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &DecodeError{File: filename, Diags: diags}
	}
	return decodeBody(file.Body, filename)
}

// ParseFile reads and decodes one definition file.
func ParseFile(parser *hclparse.Parser, path string) ([]Spec, error) {
	if parser == nil {
		parser = hclparse.NewParser()
	}
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &DecodeError{File: path, Diags: diags}
	}
	return decodeBody(file.Body, path)
}

func decodeBody(body hcl.Body, filename string) ([]Spec, error) {
	var parsed hclFile
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return nil, &DecodeError{File: filename, Diags: diags}
	}

	var all hcl.Diagnostics
	specs := make([]Spec, 0, len(parsed.Settings))
	seen := make(map[string]bool, len(parsed.Settings))
	for _, block := range parsed.Settings {
		spec, diags := newSpec(block)
		all = append(all, diags...)
		if diags.HasErrors() {
			continue
		}
		if seen[spec.Key] {
			all = append(all, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate setting",
				Detail:   fmt.Sprintf("Setting %q is defined more than once in this file.", spec.Key),
				Subject:  block.Type.Range().Ptr(),
			})
			continue
		}
		seen[spec.Key] = true
		specs = append(specs, spec)
	}
	if all.HasErrors() {
		return nil, &DecodeError{File: filename, Diags: all}
	}
	return specs, nil
}

func newSpec(b *hclSetting) (Spec, hcl.Diagnostics) {
	spec := Spec{
		Key:     b.Key,
		Label:   b.Label,
		Tooltip: b.Tooltip,
		Order:   b.Order,
		ID:      b.ID,
		Unit:    b.Unit,
		Options: b.Options,
	}
	if b.ReverseOrder != nil {
		spec.ReverseOrder = *b.ReverseOrder
	}

	typeName, ok, diags := stringAttr(b.Type, "type")
	if diags.HasErrors() {
		return spec, diags
	}
	if !ok {
		return spec, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing type",
			Detail:   fmt.Sprintf("Setting %q needs a 'type' attribute.", b.Key),
			Subject:  b.Type.Range().Ptr(),
		})
	}
	t, err := settings.ParseValueType(typeName)
	if err != nil {
		return spec, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown type",
			Detail:   err.Error(),
			Subject:  b.Type.Range().Ptr(),
		})
	}
	spec.Type = t

	def, defDiags := defaultValue(b.Default, t)
	diags = append(diags, defDiags...)
	spec.Default = def

	flags, hasFlags, flagDiags := flagsAttr(b.Flags)
	diags = append(diags, flagDiags...)
	if hasFlags {
		spec.Flags = &flags
	}

	controlName, hasControl, ctlDiags := stringAttr(b.Control, "control")
	diags = append(diags, ctlDiags...)
	if hasControl {
		c, err := settings.ParseControl(controlName)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown control",
				Detail:   err.Error(),
				Subject:  b.Control.Range().Ptr(),
			})
		}
		spec.Control = c
	}

	if b.Slider != nil {
		step := 1.0
		if b.Slider.Step != nil {
			step = *b.Slider.Step
		}
		spec.Slider = &Slider{Min: b.Slider.Min, Max: b.Slider.Max, Step: step}
	}

	// An explicit control wins; otherwise a slider block or options imply one.
	switch {
	case hasControl:
	case spec.Slider != nil:
		spec.Control = settings.ControlSlider
	case spec.Options != nil:
		spec.Control = settings.ControlDropdown
	}

	if spec.Control == settings.ControlSlider && spec.Slider == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing slider block",
			Detail:   fmt.Sprintf("Setting %q uses a slider control but has no slider block.", b.Key),
			Subject:  b.Control.Range().Ptr(),
		})
	}
	if s := spec.Slider; s != nil && s.Min > s.Max {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid slider range",
			Detail:   fmt.Sprintf("Setting %q has min %g greater than max %g.", b.Key, s.Min, s.Max),
			Subject:  b.Type.Range().Ptr(),
		})
	}
	return spec, diags
}
