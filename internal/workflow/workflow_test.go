package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/syncflow/syncflow/internal/engine"
	"github.com/syncflow/syncflow/internal/node"
)

// testOp — операция для тестов с фиксированными портами.
type testOp struct {
	inputs  map[string]*node.InputPort
	outputs map[string]*node.OutputPort
}

func (o *testOp) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	return o.inputs, o.outputs
}

func (o *testOp) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	return &node.Response{Outputs: map[string]any{}}, nil
}

func sourceFactory() node.Op {
	return &testOp{
		inputs: map[string]*node.InputPort{
			"path": {Name: "path", Type: node.PortTypeFile, Required: true},
		},
		outputs: map[string]*node.OutputPort{
			"data": {Name: "data", Type: node.PortTypeJSONData},
		},
	}
}

func sinkFactory() node.Op {
	return &testOp{
		inputs: map[string]*node.InputPort{
			"data": {Name: "data", Type: node.PortTypeJSONData, Required: true},
			"limit": {
				Name: "limit", Type: node.PortTypeInteger, Default: 10,
			},
		},
	}
}

func newTestRegistry() *node.Registry {
	reg := node.NewRegistry()
	reg.Register("Source", sourceFactory, node.Meta{Category: "io"})
	reg.Register("Sink", sinkFactory, node.Meta{Category: "io"})
	return reg
}

func buildTestWorkflow(t *testing.T, reg *node.Registry) *Workflow {
	t.Helper()

	w := New()
	w.Metadata["name"] = "test-pipeline"

	src, err := reg.NewNode("Source", "src", map[string]any{
		"path":     "/data/in.csv",
		"position": []float64{10, 20},
	})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	sink, err := reg.NewNode("Sink", "sink", map[string]any{"limit": 5})
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	if err := w.AddNode(src); err != nil {
		t.Fatalf("add source: %v", err)
	}
	if err := w.AddNode(sink); err != nil {
		t.Fatalf("add sink: %v", err)
	}
	w.Connect("src", "data", "sink", "data")

	return w
}

func TestWorkflowAddNode_Duplicate(t *testing.T) {
	reg := newTestRegistry()
	w := New()

	n1, _ := reg.NewNode("Source", "a", map[string]any{"path": "/x"})
	n2, _ := reg.NewNode("Source", "a", map[string]any{"path": "/y"})

	if err := w.AddNode(n1); err != nil {
		t.Fatalf("first add should succeed: %v", err)
	}
	if err := w.AddNode(n2); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("expected ErrDuplicateNodeID, got %v", err)
	}
}

func TestWorkflowValidate_OK(t *testing.T) {
	w := buildTestWorkflow(t, newTestRegistry())
	if err := w.Validate(); err != nil {
		t.Errorf("valid workflow should pass validation: %v", err)
	}
}

func TestWorkflowValidate_UnknownPort(t *testing.T) {
	w := buildTestWorkflow(t, newTestRegistry())
	w.Connect("src", "nope", "sink", "data")

	if err := w.Validate(); !errors.Is(err, engine.ErrUnknownPort) {
		t.Errorf("expected ErrUnknownPort, got %v", err)
	}
}

func TestWorkflowValidate_Cycle(t *testing.T) {
	reg := node.NewRegistry()
	reg.Register("Loop", func() node.Op {
		return &testOp{
			inputs: map[string]*node.InputPort{
				"in": {Name: "in", Type: node.PortTypeJSONData},
			},
			outputs: map[string]*node.OutputPort{
				"out": {Name: "out", Type: node.PortTypeJSONData},
			},
		}
	}, node.Meta{})

	w := New()
	a, _ := reg.NewNode("Loop", "a", nil)
	b, _ := reg.NewNode("Loop", "b", nil)
	w.AddNode(a)
	w.AddNode(b)
	w.Connect("a", "out", "b", "in")
	w.Connect("b", "out", "a", "in")

	if err := w.Validate(); !errors.Is(err, engine.ErrCyclicDependency) {
		t.Errorf("expected ErrCyclicDependency, got %v", err)
	}
}

func TestWorkflowValidate_MissingRequiredInput(t *testing.T) {
	reg := newTestRegistry()
	w := New()

	// У sink обязательный вход data без соединения и без конфигурации.
	sink, _ := reg.NewNode("Sink", "sink", nil)
	w.AddNode(sink)

	err := w.Validate()
	if !errors.Is(err, node.ErrMissingInput) {
		t.Errorf("expected ErrMissingInput, got %v", err)
	}
}

func TestWorkflowValidate_ConnectionSatisfiesRequired(t *testing.T) {
	w := buildTestWorkflow(t, newTestRegistry())

	// sink.data обязателен, но питается соединением от src.
	if err := w.Validate(); err != nil {
		t.Errorf("connected required input should pass validation: %v", err)
	}
}
