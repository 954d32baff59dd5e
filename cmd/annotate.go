package cmd

import (
	"github.com/spf13/cobra"
)

func newAnnotateCmd() *cobra.Command {
	var text string

	annotateCmd := &cobra.Command{
		Use:   "annotate -m <text> <filter>...",
		Short: "Add a timestamped note to matching tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Annotate(args, text)
			return err
		},
	}

	annotateCmd.Flags().StringVarP(&text, "message", "m", "", "annotation text")
	_ = annotateCmd.MarkFlagRequired("message")

	return annotateCmd
}
