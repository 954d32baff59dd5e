package cmd

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	reportName := ""

	listCmd := &cobra.Command{
		Use:   "list [filter]...",
		Short: "List tasks using a named report",
		Long: `List renders a report. The default "list" report shows pending
tasks sorted by urgency; pick another with --report (next, all,
completed, waiting, or one defined in the reports file). Filter tokens
narrow the report further.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, reportName, args)
		},
	}

	listCmd.Flags().StringVarP(&reportName, "report", "r", "list", "report to render")

	return listCmd
}
