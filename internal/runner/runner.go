package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/syncflow/syncflow/internal/domain"
	"github.com/syncflow/syncflow/internal/engine"
	"github.com/syncflow/syncflow/internal/node"
	"github.com/syncflow/syncflow/internal/telemetry"
	"github.com/syncflow/syncflow/internal/workflow"
)

// updateTimeout ограничивает запись статуса в историю после того,
// как входящий HTTP-контекст уже завершился.
const updateTimeout = 10 * time.Second

// RunStore — часть репозитория runs, нужная Runner'у.
type RunStore interface {
	Create(ctx context.Context, run *domain.Run) error
	Update(ctx context.Context, run *domain.Run) error
}

// Runner запускает сохранённые workflows через Executor.
type Runner struct {
	registry *node.Registry
	runs     RunStore
	executor *engine.Executor
	logger   *slog.Logger

	wg sync.WaitGroup
}

// Config — конфигурация Runner.
type Config struct {
	// Registry — реестр типов узлов.
	Registry *node.Registry

	// Runs — хранилище истории запусков.
	Runs RunStore

	// Executor — движок выполнения.
	Executor *engine.Executor

	// Logger — логгер (default: slog.Default).
	Logger *slog.Logger
}

// New создаёт Runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		registry: cfg.Registry,
		runs:     cfg.Runs,
		executor: cfg.Executor,
		logger:   logger,
	}
}

// Launch восстанавливает workflow из документа, регистрирует run
// и запускает выполнение в фоне.
//
// Ошибки документа (неизвестный тип узла, цикл, непрошедшая валидация
// узлов) возвращаются синхронно — run в этом случае не создаётся.
func (r *Runner) Launch(ctx context.Context, stored *domain.StoredWorkflow) (*domain.Run, error) {
	serializer := workflow.NewSerializer(r.registry)

	w, err := serializer.Deserialize(&stored.Document)
	if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	run := domain.NewRun(stored.ID)
	if err := r.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	r.wg.Add(1)
	go r.execute(run, w)

	return run, nil
}

// Wait блокируется до завершения всех активных запусков.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// execute выполняет run и записывает итог в историю.
func (r *Runner) execute(run *domain.Run, w *workflow.Workflow) {
	defer r.wg.Done()

	logger := telemetry.WithRunID(r.logger, run.ID.String())

	run.MarkRunning()
	r.update(run, logger)

	result, err := r.executor.ExecuteRun(context.Background(), run.ID, w.Nodes, w.Connections)
	if err != nil {
		run.MarkFailed(err.Error())
	} else {
		run.ApplyResult(result)
	}

	r.update(run, logger)

	logger.Info("run recorded",
		"status", run.Status,
		"completed", run.CompletedNodes,
		"failed", run.FailedNodes,
		"skipped", run.SkippedNodes,
	)
}

func (r *Runner) update(run *domain.Run, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	if err := r.runs.Update(ctx, run); err != nil {
		logger.Error("failed to update run record", "error", err)
	}
}
