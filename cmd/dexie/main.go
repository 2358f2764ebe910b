package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dexie-space/dexie-go/internal/app"
	"github.com/dexie-space/dexie-go/internal/config"
	"github.com/dexie-space/dexie-go/internal/logger"
	"github.com/logrusorgru/aurora"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", aurora.Bold(aurora.Red("dexie:")), err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli, err := app.New(cfg, log, app.Params{
		Version: VersionNumber,
		Out:     os.Stdout,
		ErrOut:  os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	return cli.Run(ctx, os.Args[1:])
}
