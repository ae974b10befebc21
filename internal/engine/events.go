package engine

import (
	"time"

	"github.com/google/uuid"
)

// Events — приёмник событий жизненного цикла запуска.
//
// Движок вызывает методы синхронно из воркеров; реализация не должна
// блокировать надолго. Реализация в internal/mq публикует события
// в RabbitMQ для внешних наблюдателей.
type Events interface {
	// RunStarted — запуск workflow начался.
	RunStarted(runID uuid.UUID, totalNodes int)

	// NodeFinished — узел достиг терминального состояния.
	NodeFinished(runID uuid.UUID, nodeID, state, errMsg string, duration time.Duration)

	// RunFinished — запуск завершён и результат собран.
	RunFinished(runID uuid.UUID, result *Result)
}

// NopEvents — реализация Events, игнорирующая все события.
type NopEvents struct{}

func (NopEvents) RunStarted(uuid.UUID, int) {}

func (NopEvents) NodeFinished(uuid.UUID, string, string, string, time.Duration) {}

func (NopEvents) RunFinished(uuid.UUID, *Result) {}
