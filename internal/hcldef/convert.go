package hcldef

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/zjrosen/settingsdef/internal/settings"
)

// ctyToNative converts a cty.Value to plain Go values. Whole numbers become
// int64 so they survive as Int rather than Float.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, val := it.Element()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nativeVal)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			keyStr := key.AsString()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", keyStr, err)
			}
			goMap[keyStr] = nativeVal
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
	}
}

// defaultValue converts the default expression according to the declared
// setting type. A missing or null default yields nil.
func defaultValue(expr hcl.Expression, t settings.ValueType) (*settings.Value, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}

	invalid := func(detail string) hcl.Diagnostics {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid default value",
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		})
	}

	var out settings.Value
	switch t {
	case settings.TypeBool:
		if val.Type() != cty.Bool {
			return nil, invalid("A Bool setting needs a true or false default.")
		}
		out = settings.Bool(val.True())

	case settings.TypeInt:
		if val.Type() != cty.Number || !val.AsBigFloat().IsInt() {
			return nil, invalid("An Int setting needs a whole number default.")
		}
		var i int64
		if err := gocty.FromCtyValue(val, &i); err != nil {
			return nil, invalid(err.Error())
		}
		out = settings.Int(i)

	case settings.TypeFloat:
		if val.Type() != cty.Number {
			return nil, invalid("A Float setting needs a number default.")
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, invalid(err.Error())
		}
		out = settings.Float(f)

	case settings.TypeString, settings.TypeEnum, settings.TypeColor:
		if val.Type() != cty.String {
			return nil, invalid(fmt.Sprintf("A %s setting needs a string default.", t))
		}
		out = settings.String(val.AsString())

	default:
		native, err := ctyToNative(val)
		if err != nil {
			return nil, invalid(err.Error())
		}
		v, err := settings.FromAny(native)
		if err != nil {
			return nil, invalid(err.Error())
		}
		out = v
	}
	return &out, diags
}

// stringAttr evaluates an optional string-valued expression.
func stringAttr(expr hcl.Expression, name string) (string, bool, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return "", false, diags
	}
	if val.Type() != cty.String {
		return "", false, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid " + name,
			Detail:   fmt.Sprintf("The '%s' attribute must be a string.", name),
			Subject:  expr.Range().Ptr(),
		})
	}
	return val.AsString(), true, diags
}

// flagsAttr accepts either a single "A|B" string or a list of flag names.
func flagsAttr(expr hcl.Expression) (settings.Flags, bool, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return settings.FlagNone, false, diags
	}

	invalid := func(detail string) hcl.Diagnostics {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid flags",
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		})
	}

	var names []string
	ty := val.Type()
	switch {
	case ty == cty.String:
		names = []string{val.AsString()}
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		it := val.ElementIterator()
		for it.Next() {
			_, el := it.Element()
			if el.Type() != cty.String || el.IsNull() {
				return settings.FlagNone, false, invalid("Every flag must be a string.")
			}
			names = append(names, el.AsString())
		}
	default:
		return settings.FlagNone, false, invalid("The 'flags' attribute must be a string or a list of strings.")
	}

	var out settings.Flags
	for _, n := range names {
		f, err := settings.ParseFlags(n)
		if err != nil {
			return settings.FlagNone, false, invalid(err.Error())
		}
		out |= f
	}
	return out, true, diags
}
