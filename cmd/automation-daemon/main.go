package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/salesbridge/automation/pkg/cmd"
	"github.com/salesbridge/automation/pkg/engine"
	"github.com/salesbridge/automation/pkg/log"
	"github.com/salesbridge/automation/pkg/queue"
	"github.com/salesbridge/automation/pkg/scheduler"
	trc "github.com/salesbridge/automation/pkg/tracer"
)

func main() {
	command := &cli.Command{
		Name:                  "automation-daemon",
		Usage:                 "Run the workflow automation engine with its scheduler and delay worker",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (postgres:// or a file path)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the shared idempotency guard (in-memory guard if empty)",
				Value:   "",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "schedule-interval",
				Usage:   "Poll interval for the schedule sweep",
				Value:   30 * time.Second,
				Sources: cli.EnvVars("SCHEDULE_INTERVAL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log output format (text, json)",
				Value:   log.FormatText,
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		slog.Error("Daemon exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := trc.InitTracer(ctx, "automation-daemon")
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			slog.Error("Failed to shutdown tracer provider", "error", err)
		}
	}()

	logger := log.WithModule("automation-daemon")

	logger.Info("Initializing automation daemon")

	store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}()

	guard, err := cmd.NewDedupGuard(logger, command.String("redis-url"))
	if err != nil {
		return err
	}

	delayQueue := queue.NewDelayQueue(logger)
	defer func() {
		if err := delayQueue.Close(); err != nil {
			logger.Error("Failed to close delay queue", "error", err)
		}
	}()

	reg := cmd.NewDefaultRegistry(store, logger)

	eng := engine.New(store, reg, delayQueue, guard, logger)

	worker := queue.NewWorker(delayQueue, reg, store, logger)
	if err := worker.Start(ctx); err != nil {
		return fmt.Errorf("failed to start delay worker: %w", err)
	}

	sched := scheduler.New(store, eng, logger)

	logger.Info("Automation daemon started")

	sched.Start(ctx, command.Duration("schedule-interval"))

	logger.Info("Automation daemon stopped")

	return nil
}
