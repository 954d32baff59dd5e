package cmd

import (
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <filter>...",
		Short: "Show full details of matching tasks",
		Long: `Info prints every field of each matching task, annotations and
urgency included. Closed tasks match too when selected by UUID or an
explicit status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			return e.Info(cmd.OutOrStdout(), args)
		},
	}
}
