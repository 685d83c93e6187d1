package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/presentation"
	"github.com/zjrosen/settingsdef/internal/settings"
)

var sampleDryRun bool

var sampleCmd = &cobra.Command{
	Use:   "sample [catalog]",
	Short: "Write the built-in sample settings to a catalog",
	Long: `Write three sample settings (a mouse sensitivity slider, an input
dropdown and a VSync toggle) to a catalog, print it, and save it if anything
changed. The catalog defaults to "Settings".`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{runtimeAnnotation: "true"},
	RunE:        runSample,
}

func init() {
	sampleCmd.Flags().BoolVar(&sampleDryRun, "dry-run", false, "print without saving")
	rootCmd.AddCommand(sampleCmd)
}

const sampleCatalogName = "Settings"

// defineSample declares the sample settings on def.
func defineSample(def *settings.Definition) {
	def.SetSlider("Controls/Mouse/Sensitivity", 0, 100, 5, settings.Default(50.0)).
		SetTooltip("Set mouse sensitivity").
		SetOrder(10)

	def.SetOptions("Controls/Input", []string{"Gamepad", "Keyboard"}, settings.Default("Keyboard")).
		SetTooltip("Select preferred input").
		SetOrder(9)

	def.SetToggle("Graphics/VSync", settings.Default(true)).
		SetTooltip("Synchronize frame output to display refresh.").
		SetOrder(20)
}

func runSample(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := sampleCatalogName
	if len(args) > 0 {
		name = args[0]
	}

	def := rt.definition(name)
	if _, err := def.Load(ctx); err != nil {
		return fmt.Errorf("loading catalog %q: %w", def.Name(), err)
	}
	defineSample(def)

	for key, m := range def.Value().All() {
		if m == nil {
			continue
		}
		log.Info(log.CatCatalog, "definition", "key", key, "label", m.Label, "type", m.Type)
	}

	if err := presentation.NewFormatter(cmd.OutOrStdout()).
		FormatCatalogTable(presentation.FromCatalog(def.Name(), def.Value())); err != nil {
		return err
	}
	if sampleDryRun {
		return nil
	}
	if err := def.SaveIfDirty(ctx); err != nil {
		return fmt.Errorf("saving catalog %q: %w", def.Name(), err)
	}
	return nil
}
