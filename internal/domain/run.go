package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/syncflow/syncflow/internal/engine"
)

// Run — запись об одном выполнении workflow.
//
// Run создаётся когда:
// - Пользователь запускает workflow через API или CLI
// - Внешний сервис дергает POST /api/v1/workflows/{id}/runs
//
// Значения выходов узлов в запись не попадают — только статусы,
// счётчики и ошибки. Результаты живут в памяти процесса, выполнившего run.
type Run struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// WorkflowID — ссылка на выполняемый workflow.
	WorkflowID uuid.UUID `json:"workflow_id"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// TotalNodes — количество узлов в графе.
	TotalNodes int `json:"total_nodes"`

	// CompletedNodes — успешно выполненные узлы (включая кэш-попадания).
	CompletedNodes int `json:"completed_nodes"`

	// FailedNodes — узлы, завершившиеся с ошибкой.
	FailedNodes int `json:"failed_nodes"`

	// SkippedNodes — узлы, пропущенные из-за отказа upstream.
	SkippedNodes int `json:"skipped_nodes"`

	// NodeErrors — ошибки по ID узлов.
	NodeErrors map[string]string `json:"node_errors,omitempty"`

	// StartedAt — время начала выполнения (когда статус стал RUNNING).
	// Nil, если run ещё не начался.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения (успешного или с ошибкой).
	// Nil, если run ещё выполняется.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст ошибки уровня run (например, цикл в графе).
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания run.
	CreatedAt time.Time `json:"created_at"`
}

// NewRun создаёт run в статусе PENDING для workflow workflowID.
func NewRun(workflowID uuid.UUID) *Run {
	return &Run{
		ID:         uuid.New(),
		WorkflowID: workflowID,
		Status:     RunStatusPending,
		CreatedAt:  time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён (в любом статусе).
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит run в статус RUNNING.
func (r *Run) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkCancelled переводит run в статус CANCELLED.
func (r *Run) MarkCancelled() {
	now := time.Now()
	r.Status = RunStatusCancelled
	r.FinishedAt = &now
}

// MarkFailed переводит run в статус FAILED с ошибкой уровня run.
func (r *Run) MarkFailed(err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.Error = err
}

// ApplyResult переносит итог выполнения в запись и переводит run
// в финальный статус.
func (r *Run) ApplyResult(result *engine.Result) {
	now := time.Now()
	r.FinishedAt = &now

	r.TotalNodes = result.TotalNodes
	r.CompletedNodes = result.CompletedNodes
	r.FailedNodes = result.FailedNodes
	r.SkippedNodes = result.SkippedNodes
	r.NodeErrors = result.Errors

	if result.Success {
		r.Status = RunStatusSucceeded
	} else {
		r.Status = RunStatusFailed
	}
}
