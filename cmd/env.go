package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/settingsdef/internal/config"
	"github.com/zjrosen/settingsdef/internal/hcldef"
	"github.com/zjrosen/settingsdef/internal/infrastructure/filestore"
	"github.com/zjrosen/settingsdef/internal/infrastructure/memstore"
	"github.com/zjrosen/settingsdef/internal/infrastructure/sqlite"
	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/paths"
	"github.com/zjrosen/settingsdef/internal/profile"
	"github.com/zjrosen/settingsdef/internal/settings"
	"github.com/zjrosen/settingsdef/internal/templates"
	"github.com/zjrosen/settingsdef/internal/tracing"
)

// env is everything a command needs once configuration is loaded.
type env struct {
	cfg      config.Config
	baseDir  string // relative definition paths resolve against this
	format   settings.Format
	backend  string
	registry *settings.Registry
	tracing  *tracing.Provider
	store    profile.Store

	files  *filestore.Store // set for the file backend
	db     *sqlite.DB       // set for the sqlite backend
	memory *memstore.Store  // set for the memory backend

	span     trace.Span
	closeLog func()
}

// newEnv opens logging, tracing and the configured store. On error,
// anything already opened is closed again.
func newEnv(ctx context.Context, cfg config.Config, baseDir string, debug bool) (e *env, err error) {
	format, err := settings.ParseFormat(cfg.Storage.Format)
	if err != nil {
		return nil, err
	}

	e = &env{
		cfg:      cfg,
		baseDir:  baseDir,
		format:   format,
		backend:  cfg.Storage.Backend,
		registry: settings.NewRegistry(),
	}
	if e.backend == "" {
		e.backend = config.BackendFile
	}
	defer func() {
		if err != nil {
			_ = e.Close(context.WithoutCancel(ctx))
		}
	}()

	if err := e.initLog(debug); err != nil {
		return nil, err
	}

	e.tracing, err = tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	switch e.backend {
	case config.BackendFile:
		e.files = filestore.New(paths.ExpandHome(cfg.Storage.Dir), format.Ext())
		e.store = e.files
	case config.BackendSQLite:
		e.db, err = sqlite.NewDB(paths.ExpandHome(cfg.Storage.DBPath))
		if err != nil {
			return nil, fmt.Errorf("opening catalog database: %w", err)
		}
		e.store = e.db.CatalogStore()
	case config.BackendMemory:
		e.memory = memstore.New()
		e.store = e.memory
	default:
		return nil, fmt.Errorf("unknown storage backend %q", e.backend)
	}

	log.Debug(log.CatStore, "store opened", "backend", e.backend, "format", format)
	return e, nil
}

func (e *env) initLog(debug bool) error {
	switch {
	case e.cfg.Log.File != "":
		cleanup, err := log.Init(paths.ExpandHome(e.cfg.Log.File))
		if err != nil {
			return err
		}
		e.closeLog = cleanup
	case debug:
		log.InitWriter(os.Stderr)
		e.closeLog = log.Reset
	default:
		return nil
	}

	level := log.ParseLevel(e.cfg.Log.Level)
	if debug {
		level = log.LevelDebug
	}
	log.SetMinLevel(level)
	return nil
}

// startCommand opens the span covering one command run.
func (e *env) startCommand(ctx context.Context, name string) context.Context {
	ctx, e.span = e.tracing.Tracer().Start(ctx, tracing.SpanCommand+name,
		trace.WithAttributes(attribute.String(tracing.AttrStoreBackend, e.backend)))
	return ctx
}

// definition returns the shared Definition for name.
func (e *env) definition(name string) *settings.Definition {
	return settings.GetOrCreateDefinition(e.registry, name, e.store,
		settings.CatalogCodec{Format: e.format},
		profile.WithTracer(e.tracing.Tracer()))
}

// builtinPrefix marks a definition reference to an embedded file.
const builtinPrefix = "builtin:"

// resolveSources turns definition references into parse sources. A
// reference is either "builtin:NAME" or a path or glob on disk, relative to
// base. Order is kept and repeats are dropped.
func resolveSources(base string, refs []string) ([]hcldef.Source, error) {
	var out []hcldef.Source
	add := func(s hcldef.Source) {
		dup := slices.ContainsFunc(out, func(o hcldef.Source) bool {
			return o.Name == s.Name && (o.FS == nil) == (s.FS == nil)
		})
		if !dup {
			out = append(out, s)
		}
	}
	for _, ref := range refs {
		if name, ok := strings.CutPrefix(ref, builtinPrefix); ok {
			if !templates.Has(name) {
				return nil, fmt.Errorf("unknown built-in definition %q (available: %s)",
					name, strings.Join(templates.Names(), ", "))
			}
			add(hcldef.Source{Name: templates.Path(name), FS: templates.DefinitionsFS()})
			continue
		}
		files, err := paths.ResolveDefinitionFiles(base, []string{ref})
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(hcldef.Source{Name: f})
		}
	}
	return out, nil
}

// definitionSources resolves the configured definitions.
func (e *env) definitionSources() ([]hcldef.Source, error) {
	sources, err := resolveSources(e.baseDir, e.cfg.Definitions)
	if err != nil {
		return nil, fmt.Errorf("definitions: %w", err)
	}
	return sources, nil
}

// open loads the named catalog and applies the configured definition files
// on top of it.
func (e *env) open(ctx context.Context, name string) (*settings.Definition, error) {
	def := e.definition(name)
	if _, err := def.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading catalog %q: %w", def.Name(), err)
	}
	if _, err := e.applyConfigured(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

func (e *env) applyConfigured(ctx context.Context, def *settings.Definition) (int, error) {
	if len(e.cfg.Definitions) == 0 {
		return 0, nil
	}
	sources, err := e.definitionSources()
	if err != nil {
		return 0, err
	}
	return hcldef.ApplySources(ctx, def, sources...)
}

// catalogPath returns the file holding name, for backends that have one.
func (e *env) catalogPath(name string) (string, bool) {
	if e.files == nil {
		return "", false
	}
	return e.files.Path(settings.SanitizeName(name)), true
}

// catalogInfo describes one stored catalog.
type catalogInfo struct {
	Name      string     `json:"name"`
	Revision  string     `json:"revision,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// catalogs lists what the store holds.
func (e *env) catalogs(ctx context.Context) ([]catalogInfo, error) {
	var names []string
	switch {
	case e.files != nil:
		var err error
		if names, err = e.files.Names(); err != nil {
			return nil, err
		}
	case e.db != nil:
		store := e.db.CatalogStore()
		names, err := store.Names(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]catalogInfo, 0, len(names))
		for _, name := range names {
			m, err := store.Find(ctx, name)
			if err != nil {
				return nil, err
			}
			updated := m.UpdatedTime()
			out = append(out, catalogInfo{Name: m.Name, Revision: m.Revision, UpdatedAt: &updated})
		}
		return out, nil
	case e.memory != nil:
		names = e.memory.Names()
	}

	out := make([]catalogInfo, 0, len(names))
	for _, name := range names {
		out = append(out, catalogInfo{Name: name})
	}
	return out, nil
}

// Close ends the command span, flushes traces and closes the store.
func (e *env) Close(ctx context.Context) error {
	var errs []error
	if e.span != nil {
		e.span.End()
		e.span = nil
	}
	if e.tracing != nil {
		if err := e.tracing.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flushing traces: %w", err))
		}
	}
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
		e.db = nil
	}
	e.registry.ClearCache()
	if e.closeLog != nil {
		e.closeLog()
		e.closeLog = nil
	}
	return errors.Join(errs...)
}
