// Package cmd implements the taskline CLI. Commands are thin adapters:
// they tokenize nothing clever, passing filter and modification tokens
// straight to the engine.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yarlson/taskline/internal/config"
	"github.com/yarlson/taskline/internal/dates"
	"github.com/yarlson/taskline/internal/engine"
	"github.com/yarlson/taskline/internal/hooks"
	"github.com/yarlson/taskline/internal/report"
	"github.com/yarlson/taskline/internal/storage"
)

// Root command flags.
var (
	cfgFile string
	dataDir string
)

// NewRootCmd creates the root command for the taskline CLI. Running it
// without a subcommand shows the "next" report.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskline [filter]...",
		Short: "A plain-text task tracker",
		Long: `Taskline tracks tasks in line-delimited JSON files. Tasks are
selected with filter tokens (+tag, -tag, an ID, a UUID, project:NAME,
status:NAME, due.before:EXPR, due.after:EXPR, or free text) and changed
with primitive operations: add, modify, done, delete and friends.

Without a subcommand, the "next" report is shown.`,
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, "next", args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./taskline.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory override")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newModifyCmd())
	rootCmd.AddCommand(newDoneCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newAppendCmd())
	rootCmd.AddCommand(newPrependCmd())
	rootCmd.AddCommand(newAnnotateCmd())
	rootCmd.AddCommand(newDenotateCmd())
	rootCmd.AddCommand(newDuplicateCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

// setup loads configuration and wires the engine for one invocation,
// running the on-launch hooks.
func setup(cmd *cobra.Command) (*engine.Engine, *config.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadWithFile(workDir, cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}

	store, err := storage.NewStore(cfg.Data.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open task store: %w", err)
	}

	e := engine.New(engine.Deps{
		Store:     store,
		Hooks:     hooks.NewRunner(cfg.Data.Dir, cfg.Hooks.Enabled, cmd.ErrOrStderr()),
		Parser:    dates.NewParser(cfg.Location(), cmd.ErrOrStderr()),
		UndoLimit: cfg.Undo.Limit,
		Out:       cmd.OutOrStdout(),
	})

	if err := e.Launch(); err != nil {
		return nil, nil, err
	}

	return e, cfg, nil
}

// runReport renders a named report, merging any caller filter terms.
func runReport(cmd *cobra.Command, name string, filterTokens []string) error {
	e, cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	defs, err := report.LoadDefinitions(cfg.Reports.Path)
	if err != nil {
		return err
	}

	def, ok := defs[name]
	if !ok {
		return fmt.Errorf("unknown report %q", name)
	}

	return e.RunReport(cmd.OutOrStdout(), def, filterTokens)
}

// isTerminal checks if the stream is attached to a terminal.
func isTerminal(stream any) bool {
	if f, ok := stream.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
