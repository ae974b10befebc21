package engine

import (
	"fmt"
	"sort"

	"github.com/syncflow/syncflow/internal/node"
)

// Connection — направленное ребро данных между узлами:
// выход FromOutput узла FromNode подаётся на вход ToInput узла ToNode.
type Connection struct {
	FromNode   string `json:"from_node"`
	FromOutput string `json:"from_output"`
	ToNode     string `json:"to_node"`
	ToInput    string `json:"to_input"`
}

// ValidateConnections проверяет, что каждое соединение ссылается
// на существующий узел и существующий порт этого узла.
//
// Pre-flight проверка: возвращает *GraphError, run не должен начинаться.
func ValidateConnections(nodes map[string]*node.Node, conns []Connection) error {
	for _, conn := range conns {
		from, exists := nodes[conn.FromNode]
		if !exists {
			return NewGraphError(
				fmt.Sprintf("connection from %s.%s", conn.FromNode, conn.FromOutput),
				fmt.Errorf("%w: %s", ErrUnknownNode, conn.FromNode))
		}
		if _, ok := from.Outputs()[conn.FromOutput]; !ok {
			return NewGraphError(
				fmt.Sprintf("connection from %s.%s", conn.FromNode, conn.FromOutput),
				fmt.Errorf("%w: %s has no output %q", ErrUnknownPort, conn.FromNode, conn.FromOutput))
		}

		to, exists := nodes[conn.ToNode]
		if !exists {
			return NewGraphError(
				fmt.Sprintf("connection to %s.%s", conn.ToNode, conn.ToInput),
				fmt.Errorf("%w: %s", ErrUnknownNode, conn.ToNode))
		}
		if _, ok := to.Inputs()[conn.ToInput]; !ok {
			return NewGraphError(
				fmt.Sprintf("connection to %s.%s", conn.ToNode, conn.ToInput),
				fmt.Errorf("%w: %s has no input %q", ErrUnknownPort, conn.ToNode, conn.ToInput))
		}
	}
	return nil
}

// BuildDependencies строит карту зависимостей из соединений:
// dependencies[nodeID] — список upstream-узлов, от которых он зависит.
//
// Дубликаты рёбер (несколько соединений между одной парой узлов)
// схлопываются, чтобы не завышать in-degree.
func BuildDependencies(nodes map[string]*node.Node, conns []Connection) map[string][]string {
	dependencies := make(map[string][]string)

	seen := make(map[[2]string]bool)
	for _, conn := range conns {
		if _, ok := nodes[conn.ToNode]; !ok {
			continue
		}
		if _, ok := nodes[conn.FromNode]; !ok {
			continue
		}

		edge := [2]string{conn.FromNode, conn.ToNode}
		if seen[edge] {
			continue
		}
		seen[edge] = true

		dependencies[conn.ToNode] = append(dependencies[conn.ToNode], conn.FromNode)
	}

	return dependencies
}

// Levels разбивает узлы на уровни выполнения (алгоритм Кана, сгруппированный).
//
// Узлы одного уровня не зависят друг от друга и могут выполняться
// параллельно; все зависимости узла уровня k лежат в уровнях < k.
// Узлы внутри уровня отсортированы для детерминированного порядка dispatch.
//
// Если часть узлов так и не достигает in-degree 0, возвращается
// *GraphError с перечнем незапланированных узлов (цикл).
func Levels(nodes map[string]*node.Node, dependencies map[string][]string) ([][]string, error) {
	inDegree := make(map[string]int, len(nodes))
	for id := range nodes {
		inDegree[id] = 0
	}

	dependents := make(map[string][]string)
	for id, deps := range dependencies {
		if _, ok := nodes[id]; !ok {
			continue
		}
		for _, dep := range deps {
			if _, ok := nodes[dep]; !ok {
				continue
			}
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	current := make([]string, 0)
	for id, degree := range inDegree {
		if degree == 0 {
			current = append(current, id)
		}
	}

	var levels [][]string
	scheduled := 0

	for len(current) > 0 {
		sort.Strings(current)
		levels = append(levels, current)
		scheduled += len(current)

		var next []string
		for _, id := range current {
			for _, dep := range dependents[id] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		current = next
	}

	if scheduled != len(nodes) {
		unscheduled := make([]string, 0, len(nodes)-scheduled)
		for id, degree := range inDegree {
			if degree > 0 {
				unscheduled = append(unscheduled, id)
			}
		}
		sort.Strings(unscheduled)

		return nil, &GraphError{
			Message:     "workflow graph contains a cycle",
			Unscheduled: unscheduled,
			Err:         ErrCyclicDependency,
		}
	}

	return levels, nil
}
