package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/syncflow/syncflow/internal/node"
)

// portsOp — операция для тестов с заданными именами портов.
type portsOp struct {
	inputs  []string
	outputs []string
	execute func(ctx context.Context, req *node.Request) (*node.Response, error)
}

func (o *portsOp) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := make(map[string]*node.InputPort)
	for _, name := range o.inputs {
		inputs[name] = &node.InputPort{Name: name, Type: node.PortTypeJSONData}
	}
	outputs := make(map[string]*node.OutputPort)
	for _, name := range o.outputs {
		outputs[name] = &node.OutputPort{Name: name, Type: node.PortTypeJSONData}
	}
	return inputs, outputs
}

func (o *portsOp) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	if o.execute == nil {
		return &node.Response{Outputs: map[string]any{}}, nil
	}
	return o.execute(ctx, req)
}

func makeNode(id string, inputs, outputs []string) *node.Node {
	return node.New("Test", id, nil, &portsOp{inputs: inputs, outputs: outputs})
}

func conn(fromNode, fromOutput, toNode, toInput string) Connection {
	return Connection{FromNode: fromNode, FromOutput: fromOutput, ToNode: toNode, ToInput: toInput}
}

func TestLevels_SimpleChain(t *testing.T) {
	nodes := map[string]*node.Node{
		"a": makeNode("a", nil, []string{"x"}),
		"b": makeNode("b", []string{"y"}, []string{"x"}),
		"c": makeNode("c", []string{"y"}, nil),
	}
	conns := []Connection{
		conn("a", "x", "b", "y"),
		conn("b", "x", "c", "y"),
	}

	levels, err := Levels(nodes, BuildDependencies(nodes, conns))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{{"a"}, {"b"}, {"c"}}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("levels = %v, want %v", levels, want)
	}
}

func TestLevels_Diamond(t *testing.T) {
	// a → b → d
	// a → c → d
	nodes := map[string]*node.Node{
		"a": makeNode("a", nil, []string{"x"}),
		"b": makeNode("b", []string{"y"}, []string{"x"}),
		"c": makeNode("c", []string{"y"}, []string{"x"}),
		"d": makeNode("d", []string{"p", "q"}, nil),
	}
	conns := []Connection{
		conn("a", "x", "b", "y"),
		conn("a", "x", "c", "y"),
		conn("b", "x", "d", "p"),
		conn("c", "x", "d", "q"),
	}

	levels, err := Levels(nodes, BuildDependencies(nodes, conns))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{{"a"}, {"b", "c"}, {"d"}}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("levels = %v, want %v", levels, want)
	}
}

func TestLevels_NoConnections(t *testing.T) {
	// Без соединений все узлы попадают в уровень 0.
	nodes := map[string]*node.Node{
		"a": makeNode("a", nil, nil),
		"b": makeNode("b", nil, nil),
		"c": makeNode("c", nil, nil),
		"d": makeNode("d", nil, nil),
	}

	levels, err := Levels(nodes, BuildDependencies(nodes, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(levels) != 1 {
		t.Fatalf("expected 1 level, got %d", len(levels))
	}
	if len(levels[0]) != 4 {
		t.Errorf("expected 4 nodes in level 0, got %d", len(levels[0]))
	}
}

func TestLevels_DependenciesInEarlierLevels(t *testing.T) {
	nodes := map[string]*node.Node{
		"a": makeNode("a", nil, []string{"x"}),
		"b": makeNode("b", []string{"y"}, []string{"x"}),
		"c": makeNode("c", []string{"y"}, []string{"x"}),
		"d": makeNode("d", []string{"p", "q"}, []string{"x"}),
		"e": makeNode("e", []string{"y"}, nil),
	}
	conns := []Connection{
		conn("a", "x", "b", "y"),
		conn("a", "x", "c", "y"),
		conn("b", "x", "d", "p"),
		conn("c", "x", "d", "q"),
		conn("d", "x", "e", "y"),
	}

	deps := BuildDependencies(nodes, conns)
	levels, err := Levels(nodes, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Каждая зависимость узла уровня k лежит в уровне строго меньше k.
	levelOf := make(map[string]int)
	for i, level := range levels {
		for _, id := range level {
			levelOf[id] = i
		}
	}

	for id, upstreams := range deps {
		for _, up := range upstreams {
			if levelOf[up] >= levelOf[id] {
				t.Errorf("dependency %s (level %d) should precede %s (level %d)",
					up, levelOf[up], id, levelOf[id])
			}
		}
	}
}

func TestLevels_CycleIsGraphError(t *testing.T) {
	nodes := map[string]*node.Node{
		"a": makeNode("a", []string{"y"}, []string{"x"}),
		"b": makeNode("b", []string{"y"}, []string{"x"}),
	}
	conns := []Connection{
		conn("a", "x", "b", "y"),
		conn("b", "x", "a", "y"),
	}

	_, err := Levels(nodes, BuildDependencies(nodes, conns))
	if err == nil {
		t.Fatal("expected error for cyclic graph")
	}
	if !errors.Is(err, ErrCyclicDependency) {
		t.Errorf("expected ErrCyclicDependency, got %v", err)
	}

	var gerr *GraphError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GraphError, got %T", err)
	}
	if !reflect.DeepEqual(gerr.Unscheduled, []string{"a", "b"}) {
		t.Errorf("unscheduled = %v, want [a b]", gerr.Unscheduled)
	}
}

func TestLevels_PartialCycleNamesOnlyCyclicNodes(t *testing.T) {
	// a → b планируются, c ↔ d образуют цикл.
	nodes := map[string]*node.Node{
		"a": makeNode("a", nil, []string{"x"}),
		"b": makeNode("b", []string{"y"}, nil),
		"c": makeNode("c", []string{"y"}, []string{"x"}),
		"d": makeNode("d", []string{"y"}, []string{"x"}),
	}
	conns := []Connection{
		conn("a", "x", "b", "y"),
		conn("c", "x", "d", "y"),
		conn("d", "x", "c", "y"),
	}

	_, err := Levels(nodes, BuildDependencies(nodes, conns))

	var gerr *GraphError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GraphError, got %v", err)
	}
	if !reflect.DeepEqual(gerr.Unscheduled, []string{"c", "d"}) {
		t.Errorf("unscheduled = %v, want [c d]", gerr.Unscheduled)
	}
}

func TestBuildDependencies_CollapsesDuplicateEdges(t *testing.T) {
	nodes := map[string]*node.Node{
		"a": makeNode("a", nil, []string{"x", "z"}),
		"b": makeNode("b", []string{"p", "q"}, nil),
	}
	conns := []Connection{
		conn("a", "x", "b", "p"),
		conn("a", "z", "b", "q"),
	}

	deps := BuildDependencies(nodes, conns)
	if len(deps["b"]) != 1 {
		t.Errorf("expected single dependency edge a→b, got %v", deps["b"])
	}
}

func TestValidateConnections(t *testing.T) {
	nodes := map[string]*node.Node{
		"a": makeNode("a", nil, []string{"x"}),
		"b": makeNode("b", []string{"y"}, nil),
	}

	if err := ValidateConnections(nodes, []Connection{conn("a", "x", "b", "y")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		conn Connection
		want error
	}{
		{"unknown source node", conn("ghost", "x", "b", "y"), ErrUnknownNode},
		{"unknown target node", conn("a", "x", "ghost", "y"), ErrUnknownNode},
		{"unknown output port", conn("a", "nope", "b", "y"), ErrUnknownPort},
		{"unknown input port", conn("a", "x", "b", "nope"), ErrUnknownPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConnections(nodes, []Connection{tt.conn})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			var gerr *GraphError
			if !errors.As(err, &gerr) {
				t.Errorf("expected *GraphError, got %T", err)
			}
		})
	}
}
