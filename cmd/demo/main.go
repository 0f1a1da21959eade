// Command demo serves a small user API with generated documentation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/drblury/routeweaver/app"
)

func main() {
	configFile := flag.String("config", "config.yaml", "optional configuration file")
	addr := flag.String("addr", "", "listen address, overrides the configuration")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	if err := run(*configFile, *addr, logger); err != nil {
		logger.Error("demo stopped", "error", err)
		os.Exit(1)
	}
}

func run(configFile, addr string, logger *slog.Logger) error {
	cfg, err := app.LoadConfig(configFile)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx, addr)
}
