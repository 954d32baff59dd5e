package cmd

import (
	"github.com/spf13/cobra"
)

func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the most recent change",
		Long: `Undo restores both task files to their state before the last
mutating command. With nothing left to undo it reports so and exits
successfully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			return e.Undo()
		},
	}
}
