// automation-trigger fires one manual event against an entity and exits.
// Useful for exercising workflow definitions without the daemon.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/salesbridge/automation/pkg/cmd"
	"github.com/salesbridge/automation/pkg/dedup"
	"github.com/salesbridge/automation/pkg/engine"
	"github.com/salesbridge/automation/pkg/log"
	"github.com/salesbridge/automation/pkg/models"
	"github.com/salesbridge/automation/pkg/queue"
)

func main() {
	command := &cli.Command{
		Name:                  "automation-trigger",
		Usage:                 "Fire a manual triggering event against one entity",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (postgres:// or a file path)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "entity-type",
				Usage:    "Entity type the event targets (quote, invoice, ...)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "entity-id",
				Usage:    "Entity instance the event targets",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "triggered-by",
				Usage: "Identifier recorded as the execution's initiator",
				Value: "cli",
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
		slog.Error("Trigger failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule("automation-trigger")

	store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}()

	delayQueue := queue.NewDelayQueue(logger)
	defer func() {
		if err := delayQueue.Close(); err != nil {
			logger.Error("Failed to close delay queue", "error", err)
		}
	}()

	reg := cmd.NewDefaultRegistry(store, logger)
	guard := dedup.NewMemoryGuard(time.Hour)
	eng := engine.New(store, reg, delayQueue, guard, logger)

	entityType := command.String("entity-type")
	entityID := command.String("entity-id")

	entity, err := store.EntityByID(ctx, entityType, entityID)
	if err != nil {
		logger.Warn("Entity snapshot unavailable, firing with empty payload", "error", err)

		entity = map[string]any{}
	}

	event := &models.EventContext{
		EventType:   models.EventManual,
		Entity:      entity,
		TriggeredBy: command.String("triggered-by"),
	}

	return eng.TriggerWorkflows(ctx, entityType, entityID, event)
}
