// Package profile implements the owner side of a named, persisted value:
// lazy loading, dirty tracking, save-if-dirty and change notification.
//
// A Profile knows nothing about what it stores. The value is encoded by a
// Codec and the bytes are kept by a Store, so the same Profile serves file,
// SQLite and in-memory backends.
package profile

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/pubsub"
	"github.com/zjrosen/settingsdef/internal/tracing"
)

// ErrNotFound is returned by a Store when nothing has been saved under a name.
var ErrNotFound = errors.New("profile: not found")

// Store persists encoded profile data by name.
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Codec converts between a profile value and its stored bytes.
type Codec[T any] interface {
	Empty() T
	Encode(T) ([]byte, error)
	Decode([]byte) (T, error)
}

// Option configures a Profile.
type Option func(*options)

type options struct {
	tracer trace.Tracer
}

// WithTracer sets the tracer used for load and save spans.
// The default is the global OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// Profile owns one named value.
type Profile[T any] struct {
	name   string
	store  Store
	codec  Codec[T]
	tracer trace.Tracer
	broker *pubsub.Broker[T]

	mu     sync.Mutex
	value  T
	loaded bool
	dirty  bool
}

// New creates a profile. Nothing is read from the store until the value is
// first requested.
func New[T any](name string, store Store, codec Codec[T], opts ...Option) *Profile[T] {
	o := options{tracer: otel.Tracer(tracing.InstrumentationName)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Profile[T]{
		name:   name,
		store:  store,
		codec:  codec,
		tracer: o.tracer,
		broker: pubsub.NewBroker[T](),
	}
}

// Name returns the profile name used as the storage key.
func (p *Profile[T]) Name() string { return p.name }

// GetValue returns the live value, loading it on first use.
// markDirty flags the value for the next SaveIfDirty; notify publishes a
// ChangedEvent to subscribers. A failed first load is logged and leaves an
// empty value in place, so callers are never blocked.
func (p *Profile[T]) GetValue(markDirty, notify bool) T {
	p.mu.Lock()
	if !p.loaded {
		if _, err := p.loadLocked(context.Background()); err != nil {
			log.ErrorErr(log.CatStore, "lazy load failed, starting empty", err, "profile", p.name)
			p.value = p.codec.Empty()
			p.loaded = true
		}
	}
	if markDirty {
		p.dirty = true
	}
	v := p.value
	p.mu.Unlock()

	if notify {
		p.broker.Publish(pubsub.ChangedEvent, v)
	}
	return v
}

// Value returns the live value without marking it dirty or notifying.
func (p *Profile[T]) Value() T {
	return p.GetValue(false, false)
}

// Load forces a reload from the store and returns the new value.
// Missing data loads as the codec's empty value. On error the previous value
// is kept and the store or codec error is returned as is.
func (p *Profile[T]) Load(ctx context.Context) (T, error) {
	p.mu.Lock()
	v, err := p.loadLocked(ctx)
	p.mu.Unlock()
	if err != nil {
		return v, err
	}
	p.broker.Publish(pubsub.LoadedEvent, v)
	return v, nil
}

func (p *Profile[T]) loadLocked(ctx context.Context) (T, error) {
	ctx, span := p.tracer.Start(ctx, tracing.SpanProfileLoad,
		trace.WithAttributes(attribute.String(tracing.AttrProfileName, p.name)))
	defer span.End()

	data, err := p.store.Load(ctx, p.name)
	if errors.Is(err, ErrNotFound) {
		log.Debug(log.CatStore, "nothing stored yet", "profile", p.name)
		span.AddEvent(tracing.EventProfileMissing)
		p.value = p.codec.Empty()
		p.loaded = true
		p.dirty = false
		return p.value, nil
	}
	if err != nil {
		recordError(span, err)
		return p.value, err
	}

	v, err := p.codec.Decode(data)
	if err != nil {
		recordError(span, err)
		return p.value, err
	}

	span.SetAttributes(attribute.Int(tracing.AttrProfileBytes, len(data)))
	log.Debug(log.CatStore, "profile loaded", "profile", p.name, "bytes", len(data))
	p.value = v
	p.loaded = true
	p.dirty = false
	return v, nil
}

// Save writes the value unconditionally.
func (p *Profile[T]) Save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveLocked(ctx)
}

// SaveIfDirty writes the value only if it was marked dirty since the last
// load or save.
func (p *Profile[T]) SaveIfDirty(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.dirty {
		return nil
	}
	return p.saveLocked(ctx)
}

func (p *Profile[T]) saveLocked(ctx context.Context) error {
	if !p.loaded {
		if _, err := p.loadLocked(ctx); err != nil {
			return err
		}
	}

	ctx, span := p.tracer.Start(ctx, tracing.SpanProfileSave,
		trace.WithAttributes(attribute.String(tracing.AttrProfileName, p.name)))
	defer span.End()

	data, err := p.codec.Encode(p.value)
	if err != nil {
		recordError(span, err)
		return err
	}
	if err := p.store.Save(ctx, p.name, data); err != nil {
		recordError(span, err)
		log.ErrorErr(log.CatStore, "profile save failed", err, "profile", p.name)
		return err
	}

	span.SetAttributes(attribute.Int(tracing.AttrProfileBytes, len(data)))
	log.Info(log.CatStore, "profile saved", "profile", p.name, "bytes", len(data))
	p.dirty = false
	p.broker.Publish(pubsub.SavedEvent, p.value)
	return nil
}

// Dirty reports whether the value has unsaved changes.
func (p *Profile[T]) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// MarkDirty flags the value for the next SaveIfDirty.
func (p *Profile[T]) MarkDirty() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
}

// Subscribe streams change, load and save events until ctx is cancelled.
func (p *Profile[T]) Subscribe(ctx context.Context) <-chan pubsub.Event[T] {
	return p.broker.Subscribe(ctx)
}

// Close releases subscribers. The value stays readable.
func (p *Profile[T]) Close() {
	p.broker.Close()
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
