// Command hrctl runs maintenance tasks against the attendance database:
// migrations, device syncs, punch cleanup, absence backfill and salary runs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/attendance-hr-go/internal/app"
	"github.com/cmlabs-hris/attendance-hr-go/internal/config"
	"github.com/cmlabs-hris/attendance-hr-go/internal/domain/user"
)

func main() {
	run, err := parse(os.Args[1:], os.Stderr)
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "hrctl:", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	app.NewLogger(cfg.App)

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("Failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// Commands act with full rights; there is no logged-in user.
	ctx = user.WithActor(ctx, user.SystemActor)

	result, err := run(ctx, a)
	stop()
	a.Close()
	if err != nil {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintln(os.Stderr, "hrctl:", err)
		os.Exit(1)
	}
}
