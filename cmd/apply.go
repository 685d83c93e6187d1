package cmd

import (
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/settingsdef/internal/config"
	"github.com/zjrosen/settingsdef/internal/hcldef"
	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/presentation"
)

var (
	applyRemember bool
	applyDryRun   bool
	applyJSON     bool
)

var applyCmd = &cobra.Command{
	Use:   "apply FILE...",
	Short: "Apply HCL definition files to a catalog and save it",
	Long: `Apply HCL definition files to a catalog and save it if anything changed.

All files are parsed before any is applied, so an error in one file leaves
the catalog untouched. Glob patterns are expanded, and "builtin:NAME" names
one of the definition files shipped with settingsdef (see "builtins").`,
	Example: `  settingsdef apply defs/graphics.hcl defs/controls.hcl
  settingsdef apply 'defs/*.hcl' --catalog game --remember
  settingsdef apply builtin:graphics builtin:audio`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{runtimeAnnotation: "true"},
	RunE:        runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyRemember, "remember", false,
		"add the files to the config's definitions list")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false,
		"apply in memory and print the result without saving")
	applyCmd.Flags().BoolVar(&applyJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(applyCmd)
}

type applyResult struct {
	Catalog string   `json:"catalog"`
	Files   []string `json:"files"`
	Applied int      `json:"applied"`
	Total   int      `json:"total"`
	Saved   bool     `json:"saved"`
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	sources, err := resolveSources(cwd, args)
	if err != nil {
		return err
	}
	files := make([]string, 0, len(sources))
	for _, src := range sources {
		if src.FS != nil {
			// remembered as written, so the config stays portable
			files = append(files, builtinPrefix+strings.TrimSuffix(path.Base(src.Name), path.Ext(src.Name)))
			continue
		}
		files = append(files, src.Name)
	}

	def, err := rt.open(ctx, catalogName(nil))
	if err != nil {
		return err
	}
	applied, err := hcldef.ApplySources(ctx, def, sources...)
	if err != nil {
		return err
	}

	result := applyResult{
		Catalog: def.Name(),
		Files:   files,
		Applied: applied,
		Total:   def.Value().Len(),
	}
	if !applyDryRun {
		result.Saved = def.Dirty()
		if err := def.SaveIfDirty(ctx); err != nil {
			return fmt.Errorf("saving catalog %q: %w", def.Name(), err)
		}
	}

	if applyRemember {
		if err := rememberDefinitions(files); err != nil {
			return err
		}
	}

	out := presentation.NewFormatter(cmd.OutOrStdout())
	if applyJSON {
		return out.FormatResult(result)
	}
	if applyDryRun {
		return out.FormatCatalogTable(presentation.FromCatalog(def.Name(), def.Value()))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d settings from %d files to %q (%d total)\n",
		result.Applied, len(result.Files), result.Catalog, result.Total)
	return nil
}

// rememberDefinitions appends files to the config's definitions, skipping
// ones already listed.
func rememberDefinitions(files []string) error {
	defs := slices.Clone(cfg.Definitions)
	for _, f := range files {
		if !slices.Contains(defs, f) {
			defs = append(defs, f)
		}
	}
	path := configPath()
	if err := config.SaveDefinitions(path, defs); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cfg.Definitions = defs
	log.Info(log.CatConfig, "definitions remembered", "path", path, "count", len(defs))
	return nil
}
