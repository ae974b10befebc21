package workflow

import (
	"fmt"

	"github.com/syncflow/syncflow/internal/engine"
	"github.com/syncflow/syncflow/internal/node"
)

// Workflow — граф узлов с соединениями и метаданными.
//
// Workflow — это статическое описание: какие узлы есть, как их порты
// соединены и с какой конфигурацией они запускаются. Выполнением
// занимается engine.Executor.
type Workflow struct {
	// Nodes — узлы по их ID.
	Nodes map[string]*node.Node

	// Connections — соединения выходных портов со входными.
	Connections []engine.Connection

	// Metadata — произвольные метаданные (имя, описание, автор).
	Metadata map[string]any
}

// New создаёт пустой workflow.
func New() *Workflow {
	return &Workflow{
		Nodes:    make(map[string]*node.Node),
		Metadata: make(map[string]any),
	}
}

// Name возвращает имя workflow из метаданных ("" — имя не задано).
func (w *Workflow) Name() string {
	name, _ := w.Metadata["name"].(string)
	return name
}

// AddNode добавляет узел в workflow.
func (w *Workflow) AddNode(n *node.Node) error {
	if _, ok := w.Nodes[n.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID())
	}
	w.Nodes[n.ID()] = n
	return nil
}

// Connect соединяет выходной порт одного узла со входным портом другого.
// Корректность портов проверяется в Validate, а не в момент добавления.
func (w *Workflow) Connect(fromNode, fromOutput, toNode, toInput string) {
	w.Connections = append(w.Connections, engine.Connection{
		FromNode:   fromNode,
		FromOutput: fromOutput,
		ToNode:     toNode,
		ToInput:    toInput,
	})
}

// ConnectedInputs возвращает множество имён подключённых входов узла.
func (w *Workflow) ConnectedInputs(nodeID string) map[string]bool {
	connected := make(map[string]bool)
	for _, c := range w.Connections {
		if c.ToNode == nodeID {
			connected[c.ToInput] = true
		}
	}
	return connected
}

// Validate выполняет полную валидацию workflow.
//
// Проверяет:
// - Существование узлов и портов во всех соединениях
// - Отсутствие циклов в графе зависимостей
// - Конфигурацию каждого узла (обязательные входы, валидаторы портов)
func (w *Workflow) Validate() error {
	if err := engine.ValidateConnections(w.Nodes, w.Connections); err != nil {
		return err
	}

	deps := engine.BuildDependencies(w.Nodes, w.Connections)
	if _, err := engine.Levels(w.Nodes, deps); err != nil {
		return err
	}

	for _, n := range w.Nodes {
		if err := n.Validate(w.ConnectedInputs(n.ID())); err != nil {
			return err
		}
	}

	return nil
}
