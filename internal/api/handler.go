package api

import (
	"log/slog"

	"github.com/syncflow/syncflow/internal/node"
	"github.com/syncflow/syncflow/internal/repo"
	"github.com/syncflow/syncflow/internal/runner"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	workflowRepo *repo.WorkflowRepo
	runRepo      *repo.RunRepo
	registry     *node.Registry
	runner       *runner.Runner
	logger       *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	WorkflowRepo *repo.WorkflowRepo
	RunRepo      *repo.RunRepo
	Registry     *node.Registry
	Runner       *runner.Runner
	Logger       *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		workflowRepo: cfg.WorkflowRepo,
		runRepo:      cfg.RunRepo,
		registry:     cfg.Registry,
		runner:       cfg.Runner,
		logger:       cfg.Logger,
	}
}
