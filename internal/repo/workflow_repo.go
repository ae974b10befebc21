package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syncflow/syncflow/internal/domain"
)

// WorkflowRepo — репозиторий для работы с workflows.
// Документ хранится в JSONB-колонке document.
type WorkflowRepo struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepo создаёт новый WorkflowRepo.
func NewWorkflowRepo(pool *pgxpool.Pool) *WorkflowRepo {
	return &WorkflowRepo{pool: pool}
}

// Create сохраняет новый workflow.
func (r *WorkflowRepo) Create(ctx context.Context, w *domain.StoredWorkflow) error {
	docJSON, err := json.Marshal(w.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	query := `
		INSERT INTO workflows (id, name, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		w.ID,
		w.Name,
		docJSON,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: workflow %s", ErrAlreadyExists, w.Name)
	}
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetByID возвращает workflow по ID.
func (r *WorkflowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredWorkflow, error) {
	query := `
		SELECT id, name, document, created_at, updated_at
		FROM workflows
		WHERE id = $1
	`
	return r.scanWorkflow(r.pool.QueryRow(ctx, query, id))
}

// GetByName возвращает workflow по имени.
func (r *WorkflowRepo) GetByName(ctx context.Context, name string) (*domain.StoredWorkflow, error) {
	query := `
		SELECT id, name, document, created_at, updated_at
		FROM workflows
		WHERE name = $1
	`
	return r.scanWorkflow(r.pool.QueryRow(ctx, query, name))
}

// List возвращает все workflows, новые первыми.
func (r *WorkflowRepo) List(ctx context.Context) ([]domain.StoredWorkflow, error) {
	query := `
		SELECT id, name, document, created_at, updated_at
		FROM workflows
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []domain.StoredWorkflow
	for rows.Next() {
		w, err := r.scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, *w)
	}
	return workflows, rows.Err()
}

// Update заменяет документ workflow.
func (r *WorkflowRepo) Update(ctx context.Context, w *domain.StoredWorkflow) error {
	docJSON, err := json.Marshal(w.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	query := `
		UPDATE workflows
		SET name = $2, document = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, w.ID, w.Name, docJSON, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет workflow (каскадно удалит его runs).
func (r *WorkflowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workflows WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanWorkflow сканирует одну строку в StoredWorkflow.
func (r *WorkflowRepo) scanWorkflow(row pgx.Row) (*domain.StoredWorkflow, error) {
	var w domain.StoredWorkflow
	var docJSON []byte

	err := row.Scan(
		&w.ID,
		&w.Name,
		&docJSON,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan workflow: %w", err)
	}

	if err := json.Unmarshal(docJSON, &w.Document); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}

	return &w, nil
}

// isUniqueViolation проверяет ошибку на нарушение уникальности (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
