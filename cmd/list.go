package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/settingsdef/internal/presentation"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [catalog]",
	Short: "Print the settings of a catalog",
	Long: `Print every setting of a catalog in display order (order, then key).

The stored catalog is loaded and the configured definition files are applied
on top of it. Nothing is written back; use "apply" to persist.`,
	Example: `  # Table of the default catalog
  settingsdef list

  # JSON for the game catalog
  settingsdef list game --json`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{runtimeAnnotation: "true"},
	RunE:        runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	def, err := rt.open(cmd.Context(), catalogName(args))
	if err != nil {
		return err
	}

	dto := presentation.FromCatalog(def.Name(), def.Value())
	out := presentation.NewFormatter(cmd.OutOrStdout())
	if listJSON {
		return out.FormatCatalogJSON(dto)
	}
	return out.FormatCatalogTable(dto)
}
