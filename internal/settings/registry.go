package settings

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/zjrosen/settingsdef/internal/cachemanager"
	"github.com/zjrosen/settingsdef/internal/log"
)

// DefaultName is the sanitized form of an empty or unusable name.
const DefaultName = "default"

// Registry caches one owner instance per (kind, sanitized name).
// Create one per process (or per test) and share it; ClearCache resets it.
type Registry struct {
	mu    sync.Mutex
	cache cachemanager.CacheManager[string, any]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		cache: cachemanager.NewPersistentCacheManager[string, any]("definitions"),
	}
}

// GetOrCreate returns the cached T registered under name, calling create
// with the sanitized name the first time. Lookup, construction and insert
// happen under one lock, so create runs at most once per key even under
// concurrent callers. Keep create cheap.
func GetOrCreate[T any](r *Registry, name string, create func(sanitizedName string) T) T {
	sanitized := SanitizeName(name)
	key := kindName(reflect.TypeFor[T]()) + "|" + sanitized
	ctx := context.Background()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.cache.Get(ctx, key); ok {
		if v, ok := existing.(T); ok {
			return v
		}
	}

	created := create(sanitized)
	r.cache.Set(ctx, key, created, cachemanager.NoExpiration)
	log.Debug(log.CatRegistry, "owner created", "key", key)
	return created
}

// ClearCache drops every cached owner of every kind, so later requests
// construct fresh owners. Hosts call it when their subsystem (re)starts.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.cache.Flush(context.Background())
	log.Info(log.CatRegistry, "registry cleared")
}

// Len returns the number of cached owners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

func kindName(t reflect.Type) string {
	var prefix strings.Builder
	for t.Kind() == reflect.Pointer {
		prefix.WriteByte('*')
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return prefix.String() + t.String()
	}
	return prefix.String() + t.PkgPath() + "." + t.Name()
}

// SanitizeName canonicalizes a catalog name into a cache key that is also a
// safe file name: lower case, letters, digits, '-' and '.', with every other
// run of characters collapsed to a single '_'. Leading and trailing '.' and
// '_' are dropped. An empty result becomes DefaultName.
func SanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return DefaultName
	}
	return out
}
