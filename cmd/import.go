package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Read tasks from JSON",
		Long: `Import reads tasks from a file, or from stdin when no file is
given. Both a JSON array and newline-delimited objects are accepted.
A task whose UUID is already stored replaces the stored task; unknown
fields are preserved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}

			var in io.Reader
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open import file: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			} else {
				in = cmd.InOrStdin()
				if isTerminal(in) {
					return fmt.Errorf("no import file given and stdin is a terminal")
				}
			}

			_, err = e.Import(in)
			return err
		},
	}
}
