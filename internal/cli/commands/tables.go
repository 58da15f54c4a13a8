package commands

import (
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Long: `List every table in the catalog, in creation order.

With --long, each table is shown with its columns and record count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if !long {
				return cc.Renderer.RenderTables(cc.Engine.ListTables())
			}
			infos, err := cc.Engine.InfoAll(commandContext(cmd))
			if err != nil {
				return err
			}
			return cc.Renderer.RenderTableSummaries(infos)
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show columns and record counts")

	return cmd
}
