package node

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// State — состояние выполнения узла.
//
// Жизненный цикл в рамках одного запуска:
//
//	pending → running → completed
//	                  ↘ failed
//	pending → skipped (только при политике cascade-skip)
//
// Попадание в кэш трактуется как немедленный переход pending → completed.
type State string

const (
	// StatePending — узел ещё не выполнялся.
	StatePending State = "pending"

	// StateRunning — узел выполняется.
	StateRunning State = "running"

	// StateCompleted — узел успешно завершён.
	StateCompleted State = "completed"

	// StateFailed — узел завершился с ошибкой.
	StateFailed State = "failed"

	// StateSkipped — узел пропущен из-за отказа upstream-узла.
	StateSkipped State = "skipped"
)

// IsTerminal возвращает true, если состояние финальное.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateSkipped:
		return true
	default:
		return false
	}
}

// Request — входные данные для выполнения узла.
type Request struct {
	// NodeID — идентификатор узла.
	NodeID string

	// Inputs — разрешённые входные значения (конфигурация + connections).
	Inputs map[string]any

	// WorkDir — временная рабочая директория для этого вызова.
	// Выделяется заново на каждый запуск узла и удаляется после run.
	WorkDir string

	// Logger — логгер для операции.
	Logger *slog.Logger

	// Progress — callback для отчёта о прогрессе (0.0–1.0).
	Progress func(float64)
}

// Response — результат выполнения узла.
type Response struct {
	// Outputs — выходные значения по именам выходных портов.
	Outputs map[string]any
}

// Op — интерфейс операции узла.
//
// Каждый тип узла реализует этот интерфейс. Операция объявляет порты
// один раз и выполняет работу в Execute. Любая ошибка должна вернуться
// через error — она будет поймана на границе узла и не уронит run.
type Op interface {
	// Ports объявляет входные и выходные порты узла.
	Ports() (map[string]*InputPort, map[string]*OutputPort)

	// Execute выполняет операцию с полностью разрешёнными входами.
	// Операция должна проверять ctx.Done() при блокирующих вызовах.
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// Node — один узел workflow.
//
// Узел принадлежит ровно одному workflow; его состояние мутирует только
// Executor во время запуска. Кэшированный результат живёт в памяти и
// исчезает вместе с узлом.
type Node struct {
	id      string
	typ     string
	config  map[string]any
	inputs  map[string]*InputPort
	outputs map[string]*OutputPort
	op      Op

	mu       sync.RWMutex
	state    State
	progress float64
	lastErr  string
	cached   map[string]any
}

// New создаёт узел поверх операции op.
//
// config — статическая конфигурация (значения для неподключённых входов).
func New(typ, id string, config map[string]any, op Op) *Node {
	if config == nil {
		config = make(map[string]any)
	}

	inputs, outputs := op.Ports()

	return &Node{
		id:      id,
		typ:     typ,
		config:  config,
		inputs:  inputs,
		outputs: outputs,
		op:      op,
		state:   StatePending,
	}
}

// ID возвращает идентификатор узла.
func (n *Node) ID() string { return n.id }

// Type возвращает имя типа узла.
func (n *Node) Type() string { return n.typ }

// Config возвращает статическую конфигурацию узла.
func (n *Node) Config() map[string]any { return n.config }

// Inputs возвращает входные порты узла.
func (n *Node) Inputs() map[string]*InputPort { return n.inputs }

// Outputs возвращает выходные порты узла.
func (n *Node) Outputs() map[string]*OutputPort { return n.outputs }

// Execute делегирует выполнение операции узла.
func (n *Node) Execute(ctx context.Context, req *Request) (*Response, error) {
	return n.op.Execute(ctx, req)
}

// Validate проверяет конфигурацию узла перед выполнением.
//
// Обязательный вход без default должен иметь значение в статической
// конфигурации либо входящее соединение (connected — множество имён
// входов с подключением). Значения из конфигурации прогоняются через
// валидатор порта, если он задан.
func (n *Node) Validate(connected map[string]bool) error {
	for name, port := range n.inputs {
		value, ok := n.config[name]

		if port.Required && port.Default == nil && !ok && !connected[name] {
			return NewValidationError(n.id, name, ErrMissingInput)
		}

		if ok && !port.Validate(value) {
			return NewValidationError(n.id, name, ErrInvalidInput)
		}
	}
	return nil
}

// inputHashKey — содержимое ключа кэша.
type inputHashKey struct {
	NodeType string         `json:"node_type"`
	NodeID   string         `json:"node_id"`
	Inputs   map[string]any `json:"inputs"`
}

// InputHash возвращает стабильный хэш входов узла для кэширования.
//
// Хэш покрывает тип узла, его ID и значения объявленных входов
// (конфигурация либо default порта). encoding/json сортирует ключи map,
// поэтому представление каноническое.
func (n *Node) InputHash() string {
	inputs := make(map[string]any, len(n.inputs))
	for name, port := range n.inputs {
		if value, ok := n.config[name]; ok {
			inputs[name] = value
		} else {
			inputs[name] = port.Default
		}
	}

	key := inputHashKey{
		NodeType: n.typ,
		NodeID:   n.id,
		Inputs:   inputs,
	}

	data, err := json.Marshal(key)
	if err != nil {
		// Несериализуемые значения — fallback на текстовое представление.
		data = fmt.Appendf(nil, "%s/%s/%v", n.typ, n.id, inputs)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// State возвращает текущее состояние узла.
func (n *Node) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// SetState переводит узел в состояние s.
func (n *Node) SetState(s State) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state = s
}

// Progress возвращает прогресс выполнения (0.0–1.0).
func (n *Node) Progress() float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.progress
}

// SetProgress обновляет прогресс выполнения, ограничивая его [0, 1].
func (n *Node) SetProgress(p float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.progress = min(max(p, 0.0), 1.0)
}

// Err возвращает сообщение последней ошибки ("" — ошибок не было).
func (n *Node) Err() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lastErr
}

// SetError записывает ошибку и переводит узел в failed.
func (n *Node) SetError(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastErr = msg
	n.state = StateFailed
}

// SetSkipped записывает причину и переводит узел в skipped.
func (n *Node) SetSkipped(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastErr = msg
	n.state = StateSkipped
}

// CacheResult сохраняет результат выполнения в кэше узла
// и переводит узел в completed с прогрессом 1.0.
func (n *Node) CacheResult(outputs map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cached = outputs
	n.state = StateCompleted
	n.progress = 1.0
}

// CachedResult возвращает кэшированный результат или nil.
func (n *Node) CachedResult() map[string]any {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cached
}
