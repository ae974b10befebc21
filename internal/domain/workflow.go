package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/syncflow/syncflow/internal/workflow"
)

// StoredWorkflow — workflow, сохранённый в БД.
//
// Document хранится как есть: узлы, соединения и метаданные в формате
// пакета workflow. Валидация документа происходит при сохранении и
// перед запуском, а не при чтении.
type StoredWorkflow struct {
	// ID — уникальный идентификатор workflow.
	ID uuid.UUID `json:"id"`

	// Name — человекочитаемое имя. Уникально в пределах инсталляции.
	Name string `json:"name"`

	// Document — сериализованное описание workflow.
	Document workflow.Document `json:"document"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего изменения документа.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStoredWorkflow создаёт запись для документа doc.
func NewStoredWorkflow(name string, doc workflow.Document) *StoredWorkflow {
	now := time.Now()
	return &StoredWorkflow{
		ID:        uuid.New(),
		Name:      name,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
