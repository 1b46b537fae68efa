package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mmynk/spendlog/internal/cli"
	"github.com/mmynk/spendlog/pkg/logging"
)

func main() {
	logging.Setup(os.Stderr, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// Usage errors from cobra are not printed by the commands themselves
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		code := cli.GetExitCode(err)
		slog.Debug("Command failed", "error", err, "exit_code", code)
		stop()
		os.Exit(code)
	}
}
