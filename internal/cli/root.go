// Package cli implements the spendlog command tree.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mmynk/spendlog/internal/config"
	"github.com/mmynk/spendlog/internal/ledger"
	"github.com/mmynk/spendlog/internal/storage"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
	Backend string // overrides SPENDLOG_BACKEND
	DBPath  string // overrides SPENDLOG_DB_PATH

	deps Deps
}

// Deps are the collaborators commands are built from. Tests replace them to
// run commands against an in-memory store with a deterministic clock.
type Deps struct {
	// LoadConfig reads the configuration (default config.Load).
	LoadConfig func() (config.Config, error)

	// OpenStore opens the backing store for cfg (default OpenStore).
	OpenStore func(ctx context.Context, cfg config.Config) (storage.KV, error)

	// LedgerOptions are appended after the options derived from cfg.
	LedgerOptions []ledger.Option
}

// DefaultDeps returns the production collaborators.
func DefaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		OpenStore:  OpenStore,
	}
}

// NewRootCommand creates the root command for the spendlog CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithDeps(DefaultDeps())
}

// NewRootCommandWithDeps creates the root command using deps.
func NewRootCommandWithDeps(deps Deps) *cobra.Command {
	opts := &RootOptions{deps: deps}

	cmd := &cobra.Command{
		Use:   "spendlog",
		Short: "spendlog - a personal expense ledger",
		Long: `Record, edit and review personal expenses.

Expenses are validated on entry and the whole ledger is saved after every
change. Storage is configured with SPENDLOG_* environment variables or a .env
file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", msg)
				return &ExitError{Code: ExitCommandError, Message: msg}
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "storage backend (sqlite|postgres|memory)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewReloadCommand(opts))

	return cmd
}
