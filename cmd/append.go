package cmd

import (
	"github.com/spf13/cobra"
)

func newAppendCmd() *cobra.Command {
	var text string

	appendCmd := &cobra.Command{
		Use:   "append -m <text> <filter>...",
		Short: "Append text to matching descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Append(args, text)
			return err
		},
	}

	appendCmd.Flags().StringVarP(&text, "message", "m", "", "text to append")
	_ = appendCmd.MarkFlagRequired("message")

	return appendCmd
}
