package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки графа workflow.
var (
	// ErrCyclicDependency — в графе есть цикл, часть узлов невозможно запланировать.
	ErrCyclicDependency = errors.New("cyclic dependency detected")

	// ErrUnknownNode — соединение ссылается на несуществующий узел.
	ErrUnknownNode = errors.New("connection references unknown node")

	// ErrUnknownPort — соединение ссылается на несуществующий порт узла.
	ErrUnknownPort = errors.New("connection references unknown port")

	// ErrUpstreamFailed — upstream-узел завершился с ошибкой (политика cascade-skip).
	ErrUpstreamFailed = errors.New("upstream node failed")
)

// GraphError — ошибка структуры графа с контекстом.
//
// Pre-flight условие: run с такой ошибкой не начинается.
type GraphError struct {
	// Message — описание проблемы.
	Message string

	// Unscheduled — узлы, которые не удалось запланировать (при цикле).
	Unscheduled []string

	// Err — базовая ошибка.
	Err error
}

// NewGraphError создаёт GraphError.
func NewGraphError(message string, err error) *GraphError {
	return &GraphError{Message: message, Err: err}
}

func (e *GraphError) Error() string {
	if len(e.Unscheduled) > 0 {
		return fmt.Sprintf("%s: unscheduled nodes: %s", e.Message, strings.Join(e.Unscheduled, ", "))
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}
