// Package settings models a named catalog of setting definitions.
//
// A Catalog maps hierarchical keys such as "Controls/Mouse/Sensitivity" to
// Metadata describing the setting's type, label, default and UI hints.
// Entries are created or updated through a Definition, which owns one named
// catalog and its persistence, and shaped with the fluent Builder:
//
//	def := settings.GetOrCreateDefinition(reg, "controls", store, codec)
//	def.SetSlider("Controls/Mouse/Sensitivity", 0, 100, 5, settings.Default(50.0)).
//		SetOrder(10)
//	_ = def.SaveIfDirty(ctx)
//
// The Registry shares one Definition per sanitized name across a process.
// Core operations normalize bad input rather than failing; only storage and
// codec errors surface, from Load and SaveIfDirty.
package settings
