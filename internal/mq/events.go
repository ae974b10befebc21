package mq

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/syncflow/syncflow/internal/engine"
)

// RunEvents публикует события Executor'а в MQ.
//
// Публикация не должна тормозить выполнение: каждый вызов ограничен
// таймаутом, ошибки публикации логируются и не влияют на run.
type RunEvents struct {
	publisher *Publisher
	logger    *slog.Logger
	timeout   time.Duration
}

// NewRunEvents создаёт адаптер событий поверх publisher.
func NewRunEvents(publisher *Publisher, logger *slog.Logger) *RunEvents {
	return &RunEvents{
		publisher: publisher,
		logger:    logger,
		timeout:   5 * time.Second,
	}
}

// RunStarted публикует событие run.started.
func (e *RunEvents) RunStarted(runID uuid.UUID, totalNodes int) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	err := e.publisher.PublishRunStarted(ctx, RunStartedPayload{
		RunID:      runID,
		TotalNodes: totalNodes,
	})
	if err != nil {
		e.logger.Warn("failed to publish run.started", "run_id", runID, "error", err)
	}
}

// NodeFinished публикует событие node.finished.
func (e *RunEvents) NodeFinished(runID uuid.UUID, nodeID, state, errMsg string, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	err := e.publisher.PublishNodeFinished(ctx, NodeFinishedPayload{
		RunID:      runID,
		NodeID:     nodeID,
		State:      state,
		Error:      errMsg,
		DurationMS: duration.Milliseconds(),
	})
	if err != nil {
		e.logger.Warn("failed to publish node.finished",
			"run_id", runID, "node_id", nodeID, "error", err)
	}
}

// RunFinished публикует событие run.finished.
func (e *RunEvents) RunFinished(runID uuid.UUID, result *engine.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	err := e.publisher.PublishRunFinished(ctx, RunFinishedPayload{
		RunID:          runID,
		Success:        result.Success,
		CompletedNodes: result.CompletedNodes,
		FailedNodes:    result.FailedNodes,
		SkippedNodes:   result.SkippedNodes,
		DurationMS:     result.Duration.Milliseconds(),
	})
	if err != nil {
		e.logger.Warn("failed to publish run.finished", "run_id", runID, "error", err)
	}
}
