package cmd

import (
	"github.com/spf13/cobra"
)

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <filter>...",
		Short: "Complete matching tasks",
		Long: `Done marks every matching task completed, stamps its end time and
releases its ID. Completing an already closed task is an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Done(args)
			return err
		},
	}
}
