package hcldef

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/hashicorp/hcl/v2/hclparse"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/settings"
	"github.com/zjrosen/settingsdef/internal/tracing"
)

// Apply writes specs into def in order and returns the builders it touched.
// The result is the same as calling the builder chain by hand.
func Apply(def *settings.Definition, specs []Spec) []settings.Builder {
	out := make([]settings.Builder, 0, len(specs))
	for _, s := range specs {
		out = append(out, applyOne(def, s))
	}
	return out
}

func applyOne(def *settings.Definition, s Spec) settings.Builder {
	b := def.GetOrCreateSetting(s.Key, s.Type)
	if s.Default != nil {
		b = b.SetDefault(*s.Default)
	}

	switch s.Control {
	case settings.ControlSlider:
		if s.Unit != nil {
			b = b.SetSlider(s.Slider.Min, s.Slider.Max, s.Slider.Step, *s.Unit)
		} else {
			b = b.SetSlider(s.Slider.Min, s.Slider.Max, s.Slider.Step)
		}
	case settings.ControlDropdown:
		b = b.SetOptions(s.Options, s.ReverseOrder)
	case settings.ControlToggle:
		b = b.SetToggle()
	case settings.ControlInputField:
		b = b.SetInputField()
	}
	if s.Control != settings.ControlSlider && s.Unit != nil {
		b.Metadata().UI.Unit = *s.Unit
	}

	if s.Label != nil {
		b = b.SetLabel(*s.Label)
	}
	if s.Tooltip != nil {
		b = b.SetTooltip(*s.Tooltip)
	}
	if s.Order != nil {
		b = b.SetOrder(*s.Order)
	}
	if s.Flags != nil {
		b = b.SetFlags(*s.Flags)
	}
	if s.ID != nil {
		b = b.SetID(*s.ID)
	}

	b.Metadata().Validate()
	return b
}

// Source names one definition document. A nil FS reads Name from the
// operating system.
type Source struct {
	Name string
	FS   fs.FS
}

// FileSources wraps OS paths as sources.
func FileSources(paths ...string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, Source{Name: p})
	}
	return out
}

// ParseSources decodes every source, stopping at the first that fails.
func ParseSources(ctx context.Context, sources ...Source) ([]Spec, error) {
	tracer := otel.Tracer(tracing.InstrumentationName)
	parser := hclparse.NewParser()

	var all []Spec
	for _, src := range sources {
		_, span := tracer.Start(ctx, tracing.SpanApplyHCL,
			trace.WithAttributes(attribute.String(tracing.AttrHCLFile, src.Name)))

		specs, err := parseSource(parser, src)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			log.ErrorErr(log.CatHCL, "definition file rejected", err, "path", src.Name)
			return nil, err
		}
		span.SetAttributes(attribute.Int(tracing.AttrSettingCount, len(specs)))
		span.End()

		log.Debug(log.CatHCL, "definition file parsed", "path", src.Name, "settings", len(specs))
		all = append(all, specs...)
	}
	return all, nil
}

func parseSource(parser *hclparse.Parser, src Source) ([]Spec, error) {
	if src.FS == nil {
		return ParseFile(parser, src.Name)
	}
	data, err := fs.ReadFile(src.FS, src.Name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Name, err)
	}
	return parseBytes(parser, data, src.Name)
}

// ApplySources parses every source first and applies them only when all
// parse, so a typo in one file never leaves the catalog half updated. It
// returns the number of settings applied.
func ApplySources(ctx context.Context, def *settings.Definition, sources ...Source) (int, error) {
	specs, err := ParseSources(ctx, sources...)
	if err != nil {
		return 0, err
	}
	Apply(def, specs)
	log.Info(log.CatHCL, "definitions applied", "catalog", def.Name(), "settings", len(specs), "files", len(sources))
	return len(specs), nil
}

// ApplyFiles is ApplySources for paths on disk.
func ApplyFiles(ctx context.Context, def *settings.Definition, paths ...string) (int, error) {
	return ApplySources(ctx, def, FileSources(paths...)...)
}
