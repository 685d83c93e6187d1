package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/presentation"
	"github.com/zjrosen/settingsdef/internal/settings"
	"github.com/zjrosen/settingsdef/internal/watcher"
)

var watchTailLog bool

var watchCmd = &cobra.Command{
	Use:   "watch [catalog]",
	Short: "Reprint a catalog whenever it or its definition files change",
	Long: `Print a catalog, then watch the configured definition files and (for the
file backend) the stored catalog file. On every change the catalog is
reloaded, the definitions are applied again and the table is reprinted.

watch never saves: reapplying definitions would rewrite the catalog file and
trigger another reload.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{runtimeAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCatalog(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), catalogName(args))
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchTailLog, "tail-log", false,
		"echo log lines to stderr while watching (needs --debug or --log-file)")
	rootCmd.AddCommand(watchCmd)
}

func watchCatalog(ctx context.Context, out, errOut io.Writer, name string) error {
	def, err := rt.open(ctx, name)
	if err != nil {
		return err
	}
	formatter := presentation.NewFormatter(out)
	render := func() error {
		return formatter.FormatCatalogTable(presentation.FromCatalog(def.Name(), def.Value()))
	}
	if err := render(); err != nil {
		return err
	}

	sources, err := rt.definitionSources()
	if err != nil {
		return err
	}
	var targets []string
	for _, src := range sources {
		if src.FS == nil {
			targets = append(targets, src.Name)
		}
	}
	catalogFile, hasFile := rt.catalogPath(name)
	if hasFile {
		if catalogFile, err = filepath.Abs(catalogFile); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(catalogFile), 0o755); err != nil { //nolint:gosec // G301: same mode the file store uses
			return fmt.Errorf("creating catalog directory: %w", err)
		}
		targets = append(targets, catalogFile)
	}
	if len(targets) == 0 {
		return fmt.Errorf("nothing to watch: configure definitions or use the file backend")
	}

	wcfg := watcher.DefaultConfig(targets...)
	if d := rt.cfg.Watch.Debounce; d > 0 {
		wcfg.DebounceDur = d
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return err
	}
	defer func() { _ = w.Stop() }()

	if watchTailLog {
		if listener := log.NewListener(ctx); listener != nil {
			go func() {
				for {
					event, ok := listener.Next()
					if !ok {
						return
					}
					_, _ = io.WriteString(errOut, event.Payload)
				}
			}()
		}
	}

	events := def.Subscribe(ctx)
	log.Info(log.CatWatcher, "watching catalog", "catalog", def.Name(), "files", len(targets))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			log.Debug(log.CatWatcher, "catalog event", "catalog", def.Name(), "type", event.Type)

		case change := <-changes:
			if err := reloadCatalog(ctx, def, change, catalogFile, hasFile); err != nil {
				fmt.Fprintf(errOut, "reload failed: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "\nReloaded %s\n", time.Now().Format("15:04:05"))
			if err := render(); err != nil {
				return err
			}
		}
	}
}

// reloadCatalog rereads the stored catalog when its file changed, then
// applies the definition files again.
func reloadCatalog(ctx context.Context, def *settings.Definition, change watcher.Change, catalogFile string, hasFile bool) error {
	if hasFile && slices.Contains(change.Paths, catalogFile) {
		if _, err := def.Load(ctx); err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
	}
	if _, err := rt.applyConfigured(ctx, def); err != nil {
		return err
	}
	return nil
}
