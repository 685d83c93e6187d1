package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/settingsdef/internal/hcldef"
	"github.com/zjrosen/settingsdef/internal/templates"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List the built-in definition files",
	Long: `List the definition files shipped with settingsdef. Reference one as
"builtin:NAME" in apply arguments or the config's definitions list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range templates.Names() {
			specs, err := hcldef.ParseSources(context.Background(),
				hcldef.Source{Name: templates.Path(name), FS: templates.DefinitionsFS()})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\t%d settings\n", builtinPrefix, name, len(specs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
