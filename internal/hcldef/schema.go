// Package hcldef reads setting definitions from HCL files and applies them
// to a catalog through the builder API.
//
// A definition file contains one block per setting:
//
//	setting "Controls/Mouse/Sensitivity" {
//	  type    = "Float"
//	  default = 50
//	  order   = 10
//	  slider {
//	    min  = 0
//	    max  = 100
//	    step = 5
//	  }
//	}
package hcldef

import (
	"github.com/hashicorp/hcl/v2"
)

// hclFile is the top-level structure of a definition file.
type hclFile struct {
	Settings []*hclSetting `hcl:"setting,block"`
}

// hclSetting mirrors one setting block. Attributes that need a source range
// or cty-level inspection stay as expressions.
type hclSetting struct {
	Key          string         `hcl:"key,label"`
	Type         hcl.Expression `hcl:"type,attr"`
	Label        *string        `hcl:"label,optional"`
	Tooltip      *string        `hcl:"tooltip,optional"`
	Order        *int           `hcl:"order,optional"`
	Flags        hcl.Expression `hcl:"flags,attr"`
	ID           *string        `hcl:"id,optional"`
	Default      hcl.Expression `hcl:"default,attr"`
	Control      hcl.Expression `hcl:"control,attr"`
	Unit         *string        `hcl:"unit,optional"`
	Options      []string       `hcl:"options,optional"`
	ReverseOrder *bool          `hcl:"reverse_order,optional"`
	Slider       *hclSlider     `hcl:"slider,block"`
}

type hclSlider struct {
	Min  float64  `hcl:"min"`
	Max  float64  `hcl:"max"`
	Step *float64 `hcl:"step,optional"`
}
