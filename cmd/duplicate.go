package cmd

import (
	"github.com/spf13/cobra"
)

func newDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <filter>...",
		Short: "Create pending copies of matching tasks",
		Long: `Duplicate clones every matching task as a new pending task with a
fresh UUID and ID. Completion state is not copied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Duplicate(args)
			return err
		},
	}
}
