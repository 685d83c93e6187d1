package settings

import (
	"context"
	"strings"

	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/profile"
	"github.com/zjrosen/settingsdef/internal/pubsub"
)

// Definition is a named settings catalog together with its persistence.
type Definition struct {
	profile *profile.Profile[*Catalog]
}

// NewDefinition creates a definition backed by store. Use
// GetOrCreateDefinition to share one instance per name.
func NewDefinition(name string, store profile.Store, codec CatalogCodec, opts ...profile.Option) *Definition {
	return &Definition{
		profile: profile.New[*Catalog](name, store, codec, opts...),
	}
}

// GetOrCreateDefinition returns the registry's Definition for name,
// constructing it on first request.
func GetOrCreateDefinition(reg *Registry, name string, store profile.Store, codec CatalogCodec, opts ...profile.Option) *Definition {
	return GetOrCreate(reg, name, func(sanitized string) *Definition {
		return NewDefinition(sanitized, store, codec, opts...)
	})
}

// Name returns the sanitized catalog name.
func (d *Definition) Name() string { return d.profile.Name() }

// GetValue returns the live catalog. See profile.Profile.GetValue.
func (d *Definition) GetValue(markDirty, notify bool) *Catalog {
	return d.profile.GetValue(markDirty, notify)
}

// Value returns the catalog for reading.
func (d *Definition) Value() *Catalog { return d.profile.Value() }

// Load reloads the catalog from storage.
func (d *Definition) Load(ctx context.Context) (*Catalog, error) { return d.profile.Load(ctx) }

// Save writes the catalog unconditionally.
func (d *Definition) Save(ctx context.Context) error { return d.profile.Save(ctx) }

// SaveIfDirty writes the catalog if it was requested for writing since the
// last load or save.
func (d *Definition) SaveIfDirty(ctx context.Context) error { return d.profile.SaveIfDirty(ctx) }

// Dirty reports whether there are unsaved changes.
func (d *Definition) Dirty() bool { return d.profile.Dirty() }

// Subscribe streams catalog events until ctx is cancelled.
func (d *Definition) Subscribe(ctx context.Context) <-chan pubsub.Event[*Catalog] {
	return d.profile.Subscribe(ctx)
}

// Close releases subscribers.
func (d *Definition) Close() { d.profile.Close() }

// GetOrCreateSetting returns a builder for key, inserting a new entry when
// the key is missing or bound to nil. Surrounding whitespace is dropped from
// key, so a blank key addresses the entry stored under "". The entry's type is always set to t
// and the entry re-validated, so requesting an existing key with another
// type retypes it; any existing default is left as is.
//
// The catalog is marked dirty without notifying observers.
func (d *Definition) GetOrCreateSetting(key string, t ValueType) Builder {
	key = strings.TrimSpace(key)
	catalog := d.GetValue(true, false)

	m, ok := catalog.Get(key)
	if !ok || m == nil {
		m = &Metadata{Key: key, Type: t}
		catalog.Set(key, m)
		log.Debug(log.CatCatalog, "setting created", "catalog", d.Name(), "key", key, "type", t)
	} else if m.Type != t {
		log.Debug(log.CatCatalog, "setting retyped", "catalog", d.Name(), "key", key, "from", m.Type, "to", t)
	}

	m.Key = key
	m.Type = t
	m.Validate()

	return NewBuilder(m)
}

// Option tunes a typed setter such as SetSlider.
type Option func(*fieldOptions)

type fieldOptions struct {
	def      *Value
	unit     *string
	reversed bool
}

// Default sets the default value applied by a typed setter.
func Default[T Scalar](v T) Option {
	return DefaultValue(ValueOf(v))
}

// DefaultValue sets an already wrapped default.
func DefaultValue(v Value) Option {
	return func(o *fieldOptions) { o.def = &v }
}

// Unit sets the unit label of a slider.
func Unit(unit string) Option {
	return func(o *fieldOptions) { o.unit = &unit }
}

// Reversed lists dropdown options back to front.
func Reversed() Option {
	return func(o *fieldOptions) { o.reversed = true }
}

func collect(opts []Option) fieldOptions {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// A default supplied through opts is written before the UI is shaped, so a
// later SetDefault in the chain still wins.
func (d *Definition) begin(key string, t ValueType, o fieldOptions) Builder {
	b := d.GetOrCreateSetting(key, t)
	if o.def != nil {
		b = b.SetDefault(*o.def)
	}
	return b
}

// SetSlider defines a Float setting rendered as a slider.
func (d *Definition) SetSlider(key string, min, max, step float64, opts ...Option) Builder {
	o := collect(opts)
	b := d.begin(key, TypeFloat, o)
	if o.unit != nil {
		return b.SetSlider(min, max, step, *o.unit)
	}
	return b.SetSlider(min, max, step)
}

// SetIntSlider defines an Int setting rendered as a slider.
func (d *Definition) SetIntSlider(key string, min, max, step int, opts ...Option) Builder {
	o := collect(opts)
	b := d.begin(key, TypeInt, o)
	if o.unit != nil {
		return b.SetSlider(float64(min), float64(max), float64(step), *o.unit)
	}
	return b.SetSlider(float64(min), float64(max), float64(step))
}

// SetToggle defines a Bool setting rendered as a toggle.
func (d *Definition) SetToggle(key string, opts ...Option) Builder {
	return d.begin(key, TypeBool, collect(opts)).SetToggle()
}

// SetOptions defines an Enum setting rendered as a dropdown.
func (d *Definition) SetOptions(key string, options []string, opts ...Option) Builder {
	o := collect(opts)
	return d.begin(key, TypeEnum, o).SetOptions(options, o.reversed)
}
