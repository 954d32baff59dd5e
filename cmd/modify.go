package cmd

import (
	"github.com/spf13/cobra"
)

func newModifyCmd() *cobra.Command {
	var filterTokens []string

	modifyCmd := &cobra.Command{
		Use:   "modify -f <filter> <modification tokens>...",
		Short: "Modify matching tasks",
		Long: `Modify applies field tokens and description words to every task
matching the filter. A field token with an empty value clears the
field, so "wait:" removes a wait date and returns the task to pending.

  taskline modify -f 3 priority:H due:+2d
  taskline modify -f project:Home -f +urgent wait:2026-03-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Modify(filterTokens, args)
			return err
		},
	}

	modifyCmd.Flags().StringArrayVarP(&filterTokens, "filter", "f", nil, "filter token selecting tasks (repeatable)")
	_ = modifyCmd.MarkFlagRequired("filter")

	return modifyCmd
}
