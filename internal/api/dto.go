package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/syncflow/syncflow/internal/domain"
	"github.com/syncflow/syncflow/internal/workflow"
)

// Node DTOs

// PortResponse — описание порта узла.
type PortResponse struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// NodeTypeResponse — описание типа узла из реестра.
type NodeTypeResponse struct {
	Type        string         `json:"type"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Inputs      []PortResponse `json:"inputs"`
	Outputs     []PortResponse `json:"outputs"`
}

// Workflow DTOs

// CreateWorkflowRequest — запрос на создание workflow.
type CreateWorkflowRequest struct {
	Name     string            `json:"name"`
	Document workflow.Document `json:"document"`
}

// UpdateWorkflowRequest — запрос на обновление workflow.
type UpdateWorkflowRequest struct {
	Name     *string            `json:"name,omitempty"`
	Document *workflow.Document `json:"document,omitempty"`
}

// WorkflowResponse — ответ с workflow.
type WorkflowResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Document  workflow.Document `json:"document"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// WorkflowFromDomain конвертирует domain.StoredWorkflow в WorkflowResponse.
func WorkflowFromDomain(w domain.StoredWorkflow) WorkflowResponse {
	return WorkflowResponse{
		ID:        w.ID,
		Name:      w.Name,
		Document:  w.Document,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// ValidateWorkflowResponse — результат валидации документа.
type ValidateWorkflowResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Run DTOs

// RunResponse — ответ с run.
type RunResponse struct {
	ID             uuid.UUID         `json:"id"`
	WorkflowID     uuid.UUID         `json:"workflow_id"`
	Status         string            `json:"status"`
	TotalNodes     int               `json:"total_nodes"`
	CompletedNodes int               `json:"completed_nodes"`
	FailedNodes    int               `json:"failed_nodes"`
	SkippedNodes   int               `json:"skipped_nodes"`
	NodeErrors     map[string]string `json:"node_errors,omitempty"`
	StartedAt      *time.Time        `json:"started_at,omitempty"`
	FinishedAt     *time.Time        `json:"finished_at,omitempty"`
	Error          string            `json:"error,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// RunFromDomain конвертирует domain.Run в RunResponse.
func RunFromDomain(r domain.Run) RunResponse {
	return RunResponse{
		ID:             r.ID,
		WorkflowID:     r.WorkflowID,
		Status:         string(r.Status),
		TotalNodes:     r.TotalNodes,
		CompletedNodes: r.CompletedNodes,
		FailedNodes:    r.FailedNodes,
		SkippedNodes:   r.SkippedNodes,
		NodeErrors:     r.NodeErrors,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Error:          r.Error,
		CreatedAt:      r.CreatedAt,
	}
}
