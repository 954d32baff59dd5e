package cmd

import (
	"github.com/spf13/cobra"
)

func newDenotateCmd() *cobra.Command {
	var pattern string

	denotateCmd := &cobra.Command{
		Use:   "denotate -m <pattern> <filter>...",
		Short: "Remove a note from matching tasks",
		Long: `Denotate removes one annotation from each matching task. A numeric
pattern is a 1-based index; any other pattern removes the first
annotation containing it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Denotate(args, pattern)
			return err
		},
	}

	denotateCmd.Flags().StringVarP(&pattern, "message", "m", "", "annotation index or substring")
	_ = denotateCmd.MarkFlagRequired("message")

	return denotateCmd
}
