package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/syncflow/syncflow/internal/domain"
	"github.com/syncflow/syncflow/internal/repo"
	"github.com/syncflow/syncflow/internal/workflow"
)

// ListWorkflows возвращает список всех workflows.
// GET /api/v1/workflows
func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.workflowRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]WorkflowResponse, len(workflows))
	for i, wf := range workflows {
		result[i] = WorkflowFromDomain(wf)
	}

	List(w, result, len(result))
}

// CreateWorkflow создаёт новый workflow.
// Документ валидируется до сохранения: неизвестные типы узлов,
// битые соединения и циклы — ошибка запроса.
// POST /api/v1/workflows
func (h *Handler) CreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	if err := h.validateDocument(&req.Document); err != nil {
		InvalidState(w, err.Error())
		return
	}

	stored := domain.NewStoredWorkflow(req.Name, req.Document)

	if err := h.workflowRepo.Create(r.Context(), stored); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			Conflict(w, err.Error())
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, WorkflowFromDomain(*stored))
}

// GetWorkflow возвращает workflow по ID.
// GET /api/v1/workflows/{id}
func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	stored, err := h.workflowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	Success(w, WorkflowFromDomain(*stored))
}

// UpdateWorkflow обновляет имя или документ workflow.
// PUT /api/v1/workflows/{id}
func (h *Handler) UpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	var req UpdateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	stored, err := h.workflowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	if req.Name != nil {
		stored.Name = *req.Name
	}
	if req.Document != nil {
		if err := h.validateDocument(req.Document); err != nil {
			InvalidState(w, err.Error())
			return
		}
		stored.Document = *req.Document
	}
	stored.UpdatedAt = time.Now()

	if err := h.workflowRepo.Update(r.Context(), stored); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, WorkflowFromDomain(*stored))
}

// DeleteWorkflow удаляет workflow.
// DELETE /api/v1/workflows/{id}
func (h *Handler) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	if err := h.workflowRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "workflow not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// ValidateWorkflow проверяет сохранённый документ без запуска.
// POST /api/v1/workflows/{id}/validate
func (h *Handler) ValidateWorkflow(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workflow id")
		return
	}

	stored, err := h.workflowRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workflow not found") {
		return
	}

	if err := h.validateDocument(&stored.Document); err != nil {
		Success(w, ValidateWorkflowResponse{Valid: false, Error: err.Error()})
		return
	}

	Success(w, ValidateWorkflowResponse{Valid: true})
}

// validateDocument восстанавливает workflow из документа и валидирует граф.
func (h *Handler) validateDocument(doc *workflow.Document) error {
	wf, err := workflow.NewSerializer(h.registry).Deserialize(doc)
	if err != nil {
		return err
	}
	return wf.Validate()
}
