package node

import (
	"errors"
	"fmt"
)

// Ошибки узлов.
var (
	// ErrUnknownNodeType — тип узла не зарегистрирован в реестре.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrMissingInput — обязательный вход без default не имеет значения.
	ErrMissingInput = errors.New("required input has no value")

	// ErrInvalidInput — значение входа не прошло валидатор порта.
	ErrInvalidInput = errors.New("input value failed validation")
)

// ValidationError — ошибка валидации узла с контекстом.
type ValidationError struct {
	NodeID string // ID узла, где произошла ошибка
	Input  string // имя входного порта
	Err    error  // базовая ошибка
}

// NewValidationError создаёт ValidationError.
func NewValidationError(nodeID, input string, err error) *ValidationError {
	return &ValidationError{NodeID: nodeID, Input: input, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("node %s: input %q: %v", e.NodeID, e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
