package profile_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/settingsdef/internal/infrastructure/memstore"
	"github.com/zjrosen/settingsdef/internal/profile"
	"github.com/zjrosen/settingsdef/internal/pubsub"
)

type textCodec struct{}

func (textCodec) Empty() *string { s := ""; return &s }

func (textCodec) Encode(v *string) ([]byte, error) { return []byte(*v), nil }

func (textCodec) Decode(b []byte) (*string, error) {
	if string(b) == "corrupt" {
		return nil, errors.New("corrupt payload")
	}
	s := string(b)
	return &s, nil
}

type failingStore struct {
	loadErr error
	saveErr error
}

func (f failingStore) Load(context.Context, string) ([]byte, error) { return nil, f.loadErr }

func (f failingStore) Save(context.Context, string, []byte) error { return f.saveErr }

func TestProfile_LazyLoadMissing(t *testing.T) {
	store := memstore.New()
	p := profile.New[*string]("p", store, textCodec{})

	v := p.Value()
	require.NotNil(t, v)
	require.Empty(t, *v)
	require.False(t, p.Dirty())
}

func TestProfile_LazyLoadExisting(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.Save(context.Background(), "p", []byte("hello")))

	p := profile.New[*string]("p", store, textCodec{})
	require.Equal(t, "hello", *p.Value())
}

func TestProfile_GetValueMarksDirty(t *testing.T) {
	store := memstore.New()
	p := profile.New[*string]("p", store, textCodec{})

	v := p.GetValue(true, false)
	*v = "changed"
	require.True(t, p.Dirty())

	require.NoError(t, p.SaveIfDirty(context.Background()))
	require.False(t, p.Dirty(), "save should clear the dirty flag")

	data, err := store.Load(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "changed", string(data))
}

func TestProfile_SaveIfDirty_Clean(t *testing.T) {
	store := memstore.New()
	p := profile.New[*string]("p", store, textCodec{})
	_ = p.Value()

	require.NoError(t, p.SaveIfDirty(context.Background()))
	require.Zero(t, store.Saves(), "clean profile should not be written")
}

func TestProfile_SaveWithoutPriorAccess(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.Save(context.Background(), "p", []byte("kept")))

	p := profile.New[*string]("p", store, textCodec{})
	require.NoError(t, p.Save(context.Background()))

	data, err := store.Load(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "kept", string(data), "save must load first rather than overwrite with empty")
}

func TestProfile_LoadErrorKeepsValue(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "p", []byte("good")))

	p := profile.New[*string]("p", store, textCodec{})
	require.Equal(t, "good", *p.Value())

	require.NoError(t, store.Save(ctx, "p", []byte("corrupt")))
	_, err := p.Load(ctx)
	require.EqualError(t, err, "corrupt payload")
	require.Equal(t, "good", *p.Value(), "failed reload keeps the previous value")
}

func TestProfile_StoreErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	p := profile.New[*string]("p", failingStore{loadErr: boom}, textCodec{})

	_, err := p.Load(context.Background())
	require.ErrorIs(t, err, boom)

	require.ErrorIs(t, p.Save(context.Background()), boom)
}

func TestProfile_LazyLoadFailureFallsBackToEmpty(t *testing.T) {
	p := profile.New[*string]("p", failingStore{loadErr: errors.New("nope")}, textCodec{})
	v := p.Value()
	require.NotNil(t, v)
	require.Empty(t, *v)
}

func TestProfile_SaveErrorKeepsDirty(t *testing.T) {
	boom := errors.New("read only")
	p := profile.New[*string]("p", failingStore{loadErr: profile.ErrNotFound, saveErr: boom}, textCodec{})

	_ = p.GetValue(true, false)
	require.ErrorIs(t, p.SaveIfDirty(context.Background()), boom)
	require.True(t, p.Dirty())
}

func TestProfile_Notify(t *testing.T) {
	p := profile.New[*string]("p", memstore.New(), textCodec{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := p.Subscribe(ctx)

	_ = p.GetValue(false, true)

	select {
	case ev := <-ch:
		require.Equal(t, pubsub.ChangedEvent, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a changed event")
	}
}

func TestProfile_NoNotify(t *testing.T) {
	p := profile.New[*string]("p", memstore.New(), textCodec{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := p.Subscribe(ctx)

	_ = p.GetValue(true, false)

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProfile_LoadAndSaveEvents(t *testing.T) {
	p := profile.New[*string]("p", memstore.New(), textCodec{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := p.Subscribe(ctx)

	_, err := p.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx))

	var got []pubsub.EventType
	for len(got) < 2 {
		select {
		case ev := <-ch:
			got = append(got, ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("only received %v", got)
		}
	}
	require.Equal(t, []pubsub.EventType{pubsub.LoadedEvent, pubsub.SavedEvent}, got)
}

func TestProfile_MarkDirty(t *testing.T) {
	p := profile.New[*string]("p", memstore.New(), textCodec{})
	require.False(t, p.Dirty())
	p.MarkDirty()
	require.True(t, p.Dirty())
	require.Equal(t, "p", p.Name())
	p.Close()
}
