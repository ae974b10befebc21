package engine

import (
	"fmt"
	"os"
	"sync"

	"github.com/syncflow/syncflow/internal/node"
)

// DataManager управляет потоком данных одного запуска workflow.
//
// Владеет списком соединений, выходами уже выполненных узлов и рабочей
// директорией запуска. Выходы пишутся конкурентными воркерами, но каждый
// node id — ровно одним, поэтому мьютекс защищает только контейнер.
type DataManager struct {
	workDir string

	mu      sync.RWMutex
	results map[string]map[string]any
	conns   []Connection
}

// NewDataManager создаёт DataManager с рабочей директорией запуска.
//
// workDir == "" — директория создаётся во временном каталоге ОС.
// Вызывающий обязан вызвать Cleanup после завершения run (defer),
// включая завершение с ошибкой.
func NewDataManager(workDir string) (*DataManager, error) {
	if workDir == "" {
		dir, err := os.MkdirTemp("", "syncflow-run-")
		if err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
		workDir = dir
	} else {
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
	}

	return &DataManager{
		workDir: workDir,
		results: make(map[string]map[string]any),
	}, nil
}

// WorkDir возвращает рабочую директорию запуска.
func (m *DataManager) WorkDir() string { return m.workDir }

// AddConnection добавляет соединение между узлами.
func (m *DataManager) AddConnection(conn Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns = append(m.conns, conn)
}

// Connections возвращает копию списка соединений.
func (m *DataManager) Connections() []Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conns := make([]Connection, len(m.conns))
	copy(conns, m.conns)
	return conns
}

// SetNodeResult сохраняет выходы выполненного узла.
func (m *DataManager) SetNodeResult(nodeID string, outputs map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[nodeID] = outputs
}

// NodeResult возвращает конкретный выход узла.
// Второе значение false, если узел ещё не выполнялся или выхода нет.
func (m *DataManager) NodeResult(nodeID, output string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outputs, ok := m.results[nodeID]
	if !ok {
		return nil, false
	}
	value, ok := outputs[output]
	return value, ok
}

// ConnectedInputs возвращает множество входов узла, имеющих входящее соединение.
func (m *DataManager) ConnectedInputs(nodeID string) map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	connected := make(map[string]bool)
	for _, conn := range m.conns {
		if conn.ToNode == nodeID {
			connected[conn.ToInput] = true
		}
	}
	return connected
}

// ResolveInputs разрешает эффективные входы узла.
//
// Порядок: статическая конфигурация узла, затем default порта,
// затем поверх — значения из входящих соединений, если upstream-узел
// уже произвёл соответствующий выход. Вход, чей upstream не дал выхода
// (например, упал), остаётся неразрешённым.
func (m *DataManager) ResolveInputs(n *node.Node) map[string]any {
	resolved := make(map[string]any)

	for name, port := range n.Inputs() {
		if value, ok := n.Config()[name]; ok {
			resolved[name] = value
		} else if port.Default != nil {
			resolved[name] = port.Default
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, conn := range m.conns {
		if conn.ToNode != n.ID() {
			continue
		}
		if _, ok := n.Inputs()[conn.ToInput]; !ok {
			continue
		}
		if outputs, ok := m.results[conn.FromNode]; ok {
			if value, ok := outputs[conn.FromOutput]; ok && value != nil {
				resolved[conn.ToInput] = value
			}
		}
	}

	return resolved
}

// TempDir создаёт свежую временную директорию для одного вызова узла.
//
// Директории не разделяются между конкурентно выполняющимися узлами
// и удаляются целиком вместе с рабочей директорией в Cleanup.
func (m *DataManager) TempDir(prefix string) (string, error) {
	dir, err := os.MkdirTemp(m.workDir, prefix+"_")
	if err != nil {
		return "", fmt.Errorf("create temp dir for %s: %w", prefix, err)
	}
	return dir, nil
}

// Cleanup удаляет рабочую директорию запуска со всем содержимым.
func (m *DataManager) Cleanup() error {
	if m.workDir == "" {
		return nil
	}
	if err := os.RemoveAll(m.workDir); err != nil {
		return fmt.Errorf("cleanup work dir: %w", err)
	}
	return nil
}
