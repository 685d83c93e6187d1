package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/settingsdef/internal/presentation"
)

var catalogsJSON bool

var catalogsCmd = &cobra.Command{
	Use:         "catalogs",
	Short:       "List the catalogs held by the configured store",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{runtimeAnnotation: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		infos, err := rt.catalogs(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing catalogs: %w", err)
		}
		if catalogsJSON {
			return presentation.NewFormatter(cmd.OutOrStdout()).FormatResult(infos)
		}
		for _, info := range infos {
			if info.Revision != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", info.Name, info.Revision, info.UpdatedAt.Format("2006-01-02 15:04:05"))
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.Name)
		}
		return nil
	},
}

func init() {
	catalogsCmd.Flags().BoolVar(&catalogsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(catalogsCmd)
}
