package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/shiftward/adapter/cli"
	"github.com/felixgeelhaar/shiftward/internal/app"
	"github.com/felixgeelhaar/shiftward/pkg/config"
	"github.com/felixgeelhaar/shiftward/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(&cli.App{
		PlanService:         container.PlanService,
		ClosingService:      container.ClosingService,
		SnapshotBuilder:     container.SnapshotBuilder,
		SnapshotCache:       container.SnapshotCache,
		DutyRepo:            container.DutyRepo,
		PlanOptions:         container.PlanOptions(),
		DefaultDepartmentID: cfg.DepartmentID,
	})

	cli.Execute(ctx)
}
