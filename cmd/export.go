package cmd

import (
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var ndjson bool

	exportCmd := &cobra.Command{
		Use:   "export [filter]...",
		Short: "Write matching tasks as JSON",
		Long: `Export writes every matching task to stdout, wait state and
completion included. The default format is a JSON array; --ndjson
emits one object per line instead.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			return e.Export(cmd.OutOrStdout(), args, ndjson)
		},
	}

	exportCmd.Flags().BoolVar(&ndjson, "ndjson", false, "emit newline-delimited JSON")

	return exportCmd
}
