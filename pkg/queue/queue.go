// Package queue defers actions whose delay_minutes asks for later execution.
// Deferred actions are published to an in-process watermill channel with a
// wake time; the worker executes them when the wake time arrives and settles
// the deferred step in the owning execution record.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/salesbridge/automation/pkg/models"
)

const delayedActionsTopic = "automation.actions.delayed"

// DelayedAction is the envelope published for one deferred action.
type DelayedAction struct {
	ExecutionID string               `json:"execution_id"`
	WorkflowID  string               `json:"workflow_id"`
	EntityType  string               `json:"entity_type"`
	EntityID    string               `json:"entity_id"`
	Action      models.Action        `json:"action"`
	Event       *models.EventContext `json:"event,omitempty"`
	WakeAt      time.Time            `json:"wake_at"`
}

// DelayQueue publishes and subscribes deferred actions over an in-process
// pub/sub channel.
type DelayQueue struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewDelayQueue(logger *slog.Logger) *DelayQueue {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 1000,
		},
		watermill.NewSlogLogger(logger),
	)

	return &DelayQueue{
		pubSub: pubSub,
		logger: logger.With("module", "delay_queue"),
	}
}

// Enqueue publishes a deferred action.
func (q *DelayQueue) Enqueue(_ context.Context, delayed *DelayedAction) error {
	payload, err := json.Marshal(delayed)
	if err != nil {
		return fmt.Errorf("failed to marshal delayed action: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	if err := q.pubSub.Publish(delayedActionsTopic, msg); err != nil {
		return fmt.Errorf("failed to publish delayed action: %w", err)
	}

	q.logger.Debug("Delayed action enqueued",
		"execution_id", delayed.ExecutionID,
		"action_id", delayed.Action.ID,
		"wake_at", delayed.WakeAt)

	return nil
}

// Subscribe returns the stream of deferred action messages.
func (q *DelayQueue) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	messages, err := q.pubSub.Subscribe(ctx, delayedActionsTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to delayed actions: %w", err)
	}

	return messages, nil
}

func (q *DelayQueue) Close() error {
	return q.pubSub.Close()
}
