package cmd

import (
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <description and field tokens>...",
		Short: "Add a new task",
		Long: `Add creates a pending task. Plain words become the description;
field tokens set attributes:

  project:NAME  priority:H|M|L  due:EXPR  scheduled:EXPR  wait:EXPR
  depends:UUID[,UUID...]  +tag

A task added with a future wait date starts out waiting.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := setup(cmd)
			if err != nil {
				return err
			}
			_, err = e.Add(args)
			return err
		},
	}
}
