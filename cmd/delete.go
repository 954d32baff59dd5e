package cmd

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <filter>...",
		Short: "Delete matching tasks",
		Long: `Delete marks every matching task deleted. Deleted tasks keep their
data and move to the completed file; undo restores them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Delete(args)
			return err
		},
	}
}
