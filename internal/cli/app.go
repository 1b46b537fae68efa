package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mmynk/spendlog/internal/config"
	"github.com/mmynk/spendlog/internal/ledger"
	"github.com/mmynk/spendlog/internal/middleware"
	"github.com/mmynk/spendlog/internal/storage"
	"github.com/mmynk/spendlog/internal/storage/memory"
	"github.com/mmynk/spendlog/internal/storage/postgres"
	"github.com/mmynk/spendlog/internal/storage/sqlite"
	"github.com/mmynk/spendlog/internal/validator"
	"github.com/mmynk/spendlog/pkg/logging"
)

// OpenStore opens the backend selected by cfg.
func OpenStore(ctx context.Context, cfg config.Config) (storage.KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// ledgerFunc is the body of a command that needs a loaded ledger.
type ledgerFunc func(ctx context.Context, l *ledger.Ledger, out *OutputFormatter) error

// runWithLedger resolves configuration, opens the store, loads the ledger,
// runs fn and closes the store again.
func runWithLedger(cmd *cobra.Command, opts *RootOptions, fn ledgerFunc) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := opts.deps.LoadConfig()
	if err != nil {
		return fail(out, ErrCodeUsage, ExitCommandError, "invalid configuration", err)
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return fail(out, ErrCodeUsage, ExitCommandError, "invalid configuration", err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	ctx := cmd.Context()
	kv, err := opts.deps.OpenStore(ctx, cfg)
	if err != nil {
		return fail(out, ErrCodeStorage, ExitCommandError, "failed to open store", err)
	}

	reg := prometheus.NewRegistry()
	kv = middleware.WithLogging(middleware.WithMetrics(kv, middleware.NewStoreMetrics(reg)), logger)
	defer kv.Close()

	ledgerOpts := []ledger.Option{
		ledger.WithKey(cfg.StorageKey),
		ledger.WithLocale(cfg.Locale),
		ledger.WithLogger(logger),
	}
	ledgerOpts = append(ledgerOpts, opts.deps.LedgerOptions...)

	l, err := ledger.New(ctx, kv, ledgerOpts...)
	if err != nil {
		return fail(out, ErrCodeStorage, ExitCommandError, "failed to load expenses", err)
	}

	err = fn(ctx, l, out)
	if opts.Verbose {
		logMetrics(ctx, logger, reg)
	}
	return err
}

// fail prints an error through out and returns the matching ExitError.
func fail(out *OutputFormatter, code string, exitCode int, message string, err error) error {
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	if printErr := out.Error(code, text, nil); printErr != nil {
		return printErr
	}
	return &ExitError{Code: exitCode, Message: message, Err: err}
}

// ledgerError reports an error returned by a ledger operation.
func ledgerError(out *OutputFormatter, err error) error {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		if printErr := out.Error(ErrCodeValidation, "invalid expense", verr.Fields); printErr != nil {
			return printErr
		}
		return &ExitError{Code: ExitFailure, Message: "validation failed", Err: err}
	case errors.Is(err, ledger.ErrNotFound):
		return fail(out, ErrCodeNotFound, ExitFailure, "expense not found", err)
	default:
		return fail(out, ErrCodeStorage, ExitCommandError, "storage failure", err)
	}
}

// logMetrics writes the store metrics gathered during the command at DEBUG.
func logMetrics(ctx context.Context, logger *slog.Logger, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		logger.WarnContext(ctx, "Failed to gather metrics", "error", err)
		return
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			attrs := []any{"metric", family.GetName()}
			for _, label := range m.GetLabel() {
				attrs = append(attrs, label.GetName(), label.GetValue())
			}
			if c := m.GetCounter(); c != nil {
				attrs = append(attrs, "value", c.GetValue())
			}
			if h := m.GetHistogram(); h != nil {
				attrs = append(attrs, "count", h.GetSampleCount(), "sum_seconds", h.GetSampleSum())
			}
			logger.DebugContext(ctx, "Store metrics", attrs...)
		}
	}
}
