package commands

import (
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show a table's columns and record count",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			defer cleanup()
			return cc.Engine.ListTables(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			info, err := cc.Engine.Info(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return cc.Renderer.RenderTableInfo(info)
		},
	}
}
