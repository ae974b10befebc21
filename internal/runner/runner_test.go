package runner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/syncflow/syncflow/internal/domain"
	"github.com/syncflow/syncflow/internal/engine"
	"github.com/syncflow/syncflow/internal/node"
	"github.com/syncflow/syncflow/internal/workflow"
)

// memRunStore — история запусков в памяти.
type memRunStore struct {
	mu   sync.Mutex
	runs map[uuid.UUID]domain.Run
}

func newMemRunStore() *memRunStore {
	return &memRunStore{runs: make(map[uuid.UUID]domain.Run)}
}

func (s *memRunStore) Create(ctx context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

func (s *memRunStore) Update(ctx context.Context, run *domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

func (s *memRunStore) get(id uuid.UUID) domain.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

// echoOp — операция, возвращающая значение входа value на выходе out.
type echoOp struct {
	fail bool
}

func (o *echoOp) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := map[string]*node.InputPort{
		"value": {Name: "value", Type: node.PortTypeString},
	}
	outputs := map[string]*node.OutputPort{
		"out": {Name: "out", Type: node.PortTypeString},
	}
	return inputs, outputs
}

func (o *echoOp) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	if o.fail {
		return nil, errors.New("echo failed")
	}
	return &node.Response{Outputs: map[string]any{"out": req.Inputs["value"]}}, nil
}

func newTestRunner(t *testing.T, failing bool) (*Runner, *memRunStore) {
	t.Helper()

	reg := node.NewRegistry()
	reg.Register("Echo", func() node.Op { return &echoOp{fail: failing} }, node.Meta{})

	store := newMemRunStore()
	r := New(Config{
		Registry: reg,
		Runs:     store,
		Executor: engine.New(engine.Config{}),
	})
	return r, store
}

func testDocument() workflow.Document {
	return workflow.Document{
		Version: workflow.DocumentVersion,
		Nodes: []workflow.NodeDef{
			{ID: "a", Type: "Echo", Inputs: map[string]any{"value": "hi"}},
			{ID: "b", Type: "Echo"},
		},
		Connections: []workflow.ConnectionDef{
			{
				From: workflow.Endpoint{Node: "a", Output: "out"},
				To:   workflow.Endpoint{Node: "b", Input: "value"},
			},
		},
	}
}

func TestRunnerLaunch_Succeeds(t *testing.T) {
	r, store := newTestRunner(t, false)

	stored := domain.NewStoredWorkflow("demo", testDocument())
	run, err := r.Launch(context.Background(), stored)
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	r.Wait()

	got := store.get(run.ID)
	if got.Status != domain.RunStatusSucceeded {
		t.Errorf("expected SUCCEEDED, got %s (error: %s)", got.Status, got.Error)
	}
	if got.TotalNodes != 2 || got.CompletedNodes != 2 {
		t.Errorf("unexpected counts: %+v", got)
	}
	if got.WorkflowID != stored.ID {
		t.Errorf("run should reference the stored workflow")
	}
	if got.StartedAt == nil || got.FinishedAt == nil {
		t.Error("timestamps should be set for a finished run")
	}
}

func TestRunnerLaunch_NodeFailureRecorded(t *testing.T) {
	r, store := newTestRunner(t, true)

	run, err := r.Launch(context.Background(), domain.NewStoredWorkflow("demo", testDocument()))
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	r.Wait()

	got := store.get(run.ID)
	if got.Status != domain.RunStatusFailed {
		t.Errorf("expected FAILED, got %s", got.Status)
	}
	if got.NodeErrors["a"] == "" {
		t.Errorf("node errors should be recorded: %v", got.NodeErrors)
	}
}

func TestRunnerLaunch_BadDocumentRejected(t *testing.T) {
	r, store := newTestRunner(t, false)

	doc := testDocument()
	doc.Nodes[0].Type = "Nope"

	_, err := r.Launch(context.Background(), domain.NewStoredWorkflow("demo", doc))
	if !errors.Is(err, node.ErrUnknownNodeType) {
		t.Fatalf("expected ErrUnknownNodeType, got %v", err)
	}
	if len(store.runs) != 0 {
		t.Error("no run must be created for an invalid document")
	}
}

func TestRunnerLaunch_CycleRejected(t *testing.T) {
	r, _ := newTestRunner(t, false)

	doc := testDocument()
	doc.Connections = append(doc.Connections, workflow.ConnectionDef{
		From: workflow.Endpoint{Node: "b", Output: "out"},
		To:   workflow.Endpoint{Node: "a", Input: "value"},
	})

	_, err := r.Launch(context.Background(), domain.NewStoredWorkflow("demo", doc))
	if !errors.Is(err, engine.ErrCyclicDependency) {
		t.Fatalf("expected ErrCyclicDependency, got %v", err)
	}
}
