package cmd

import (
	"github.com/spf13/cobra"
)

func newPrependCmd() *cobra.Command {
	var text string

	prependCmd := &cobra.Command{
		Use:   "prepend -m <text> <filter>...",
		Short: "Prepend text to matching descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Prepend(args, text)
			return err
		},
	}

	prependCmd.Flags().StringVarP(&text, "message", "m", "", "text to prepend")
	_ = prependCmd.MarkFlagRequired("message")

	return prependCmd
}
