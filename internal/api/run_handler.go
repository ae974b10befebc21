package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/syncflow/syncflow/internal/domain"
	"github.com/syncflow/syncflow/internal/engine"
	"github.com/syncflow/syncflow/internal/node"
	"github.com/syncflow/syncflow/internal/repo"
	"github.com/syncflow/syncflow/internal/workflow"
)

// ListRuns возвращает список runs с фильтрацией.
// GET /api/v1/runs?workflow_id=...&status=...&limit=...&offset=...
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	filter := repo.RunFilter{Limit: 50}

	if workflowIDStr := r.URL.Query().Get("workflow_id"); workflowIDStr != "" {
		workflowID, err := uuid.Parse(workflowIDStr)
		if err != nil {
			BadRequest(w, "invalid workflow_id")
			return
		}
		filter.WorkflowID = &workflowID
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.RunStatus(status)
	}

	filter.Limit = queryInt(r, "limit", filter.Limit)
	filter.Offset = queryInt(r, "offset", 0)

	runs, err := h.runRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunResponse, len(runs))
	for i, run := range runs {
		result[i] = RunFromDomain(run)
	}

	List(w, result, len(result))
}

// CreateRun запускает workflow и возвращает созданный run.
// Выполнение асинхронное: ответ приходит сразу со статусом PENDING,
// прогресс отслеживается через GET /runs/{id} или события MQ.
// POST /api/v1/workflows/{id}/runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	workflowID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	stored, err := h.workflowRepo.GetByID(r.Context(), workflowID)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	run, err := h.runner.Launch(r.Context(), stored)
	if isDocumentError(err) {
		InvalidState(w, err.Error())
		return
	}
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, RunFromDomain(*run))
}

// GetRun возвращает run по ID.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	run, err := h.runRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	Success(w, RunFromDomain(*run))
}

// isDocumentError отличает ошибку данных документа от инфраструктурной.
func isDocumentError(err error) bool {
	if err == nil {
		return false
	}

	var graphErr *engine.GraphError
	var validationErr *node.ValidationError
	return errors.As(err, &graphErr) ||
		errors.As(err, &validationErr) ||
		errors.Is(err, node.ErrUnknownNodeType) ||
		errors.Is(err, workflow.ErrUnsupportedVersion)
}

// queryInt парсит целочисленный query-параметр с дефолтным значением.
func queryInt(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
