package node

import (
	"context"
	"errors"
	"testing"
)

// testOp — операция для тестов с настраиваемыми портами.
type testOp struct {
	inputs  map[string]*InputPort
	outputs map[string]*OutputPort
	execute func(ctx context.Context, req *Request) (*Response, error)
}

func (o *testOp) Ports() (map[string]*InputPort, map[string]*OutputPort) {
	return o.inputs, o.outputs
}

func (o *testOp) Execute(ctx context.Context, req *Request) (*Response, error) {
	if o.execute == nil {
		return &Response{Outputs: map[string]any{}}, nil
	}
	return o.execute(ctx, req)
}

func opWithInput(port *InputPort) *testOp {
	return &testOp{
		inputs:  map[string]*InputPort{port.Name: port},
		outputs: map[string]*OutputPort{},
	}
}

func TestInputPortValidate(t *testing.T) {
	tests := []struct {
		name  string
		port  InputPort
		value any
		want  bool
	}{
		{"nil for required without default", InputPort{Name: "x", Required: true}, nil, false},
		{"nil for optional", InputPort{Name: "x", Required: false}, nil, true},
		{"nil for required with default", InputPort{Name: "x", Required: true, Default: "d"}, nil, true},
		{"value without validator", InputPort{Name: "x", Required: true}, "v", true},
		{
			"validator rejects",
			InputPort{Name: "x", Validator: func(v any) bool { return v == "ok" }},
			"bad", false,
		},
		{
			"validator accepts",
			InputPort{Name: "x", Validator: func(v any) bool { return v == "ok" }},
			"ok", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.port.Validate(tt.value); got != tt.want {
				t.Errorf("Validate(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestNodeValidate_MissingRequired(t *testing.T) {
	op := opWithInput(&InputPort{Name: "path", Type: PortTypeFile, Required: true})
	n := New("LoadCSV", "a", nil, op)

	err := n.Validate(nil)
	if err == nil {
		t.Fatal("expected validation error for missing required input")
	}
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("expected ErrMissingInput, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.NodeID != "a" || verr.Input != "path" {
		t.Errorf("unexpected error context: node=%s input=%s", verr.NodeID, verr.Input)
	}
}

func TestNodeValidate_SatisfiedByConfig(t *testing.T) {
	op := opWithInput(&InputPort{Name: "path", Type: PortTypeFile, Required: true})
	n := New("LoadCSV", "a", map[string]any{"path": "/tmp/in.csv"}, op)

	if err := n.Validate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNodeValidate_SatisfiedByConnection(t *testing.T) {
	// Обязательный вход без default, но с входящим соединением,
	// не должен проваливать валидацию: значение придёт от upstream узла.
	op := opWithInput(&InputPort{Name: "path", Type: PortTypeFile, Required: true})
	n := New("LoadCSV", "a", nil, op)

	if err := n.Validate(map[string]bool{"path": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNodeValidate_DefaultExempts(t *testing.T) {
	op := opWithInput(&InputPort{Name: "sep", Type: PortTypeString, Required: true, Default: ","})
	n := New("LoadCSV", "a", nil, op)

	if err := n.Validate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNodeValidate_ValidatorRejects(t *testing.T) {
	op := opWithInput(&InputPort{
		Name:      "fps",
		Type:      PortTypeFloat,
		Required:  true,
		Validator: func(v any) bool { f, ok := v.(float64); return ok && f > 0 },
	})
	n := New("ConvertTimecodes", "a", map[string]any{"fps": -1.0}, op)

	err := n.Validate(nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInputHash_Stable(t *testing.T) {
	op := func() *testOp {
		return opWithInput(&InputPort{Name: "path", Type: PortTypeFile, Required: true})
	}

	a := New("LoadCSV", "a", map[string]any{"path": "/tmp/in.csv"}, op())
	b := New("LoadCSV", "a", map[string]any{"path": "/tmp/in.csv"}, op())

	if a.InputHash() != b.InputHash() {
		t.Error("hash should be stable across identical nodes")
	}
}

func TestInputHash_SensitiveToInputs(t *testing.T) {
	op := func() *testOp {
		return opWithInput(&InputPort{Name: "path", Type: PortTypeFile, Required: true})
	}

	a := New("LoadCSV", "a", map[string]any{"path": "/tmp/one.csv"}, op())
	b := New("LoadCSV", "a", map[string]any{"path": "/tmp/two.csv"}, op())

	if a.InputHash() == b.InputHash() {
		t.Error("hash should change when a declared input changes")
	}
}

func TestInputHash_SensitiveToIdentity(t *testing.T) {
	op := func() *testOp {
		return opWithInput(&InputPort{Name: "path", Type: PortTypeFile, Required: true})
	}

	cfg := map[string]any{"path": "/tmp/in.csv"}

	byID := New("LoadCSV", "a", cfg, op())
	otherID := New("LoadCSV", "b", cfg, op())
	otherType := New("LoadManifest", "a", cfg, op())

	if byID.InputHash() == otherID.InputHash() {
		t.Error("hash should include node id")
	}
	if byID.InputHash() == otherType.InputHash() {
		t.Error("hash should include node type")
	}
}

func TestInputHash_UsesPortDefault(t *testing.T) {
	op := func(def any) *testOp {
		return opWithInput(&InputPort{Name: "sep", Type: PortTypeString, Default: def})
	}

	implicit := New("LoadCSV", "a", nil, op(","))
	explicit := New("LoadCSV", "a", map[string]any{"sep": ","}, op(","))

	if implicit.InputHash() != explicit.InputHash() {
		t.Error("config value equal to default should hash identically")
	}
}

func TestNodeState(t *testing.T) {
	n := New("LoadCSV", "a", nil, &testOp{
		inputs:  map[string]*InputPort{},
		outputs: map[string]*OutputPort{},
	})

	if n.State() != StatePending {
		t.Errorf("new node should be pending, got %s", n.State())
	}

	n.SetState(StateRunning)
	if n.State() != StateRunning {
		t.Errorf("expected running, got %s", n.State())
	}

	n.SetError("boom")
	if n.State() != StateFailed {
		t.Errorf("SetError should transition to failed, got %s", n.State())
	}
	if n.Err() != "boom" {
		t.Errorf("unexpected error message: %q", n.Err())
	}

	// Прогресс ограничен [0, 1].
	n.SetProgress(1.5)
	if n.Progress() != 1.0 {
		t.Errorf("progress should clamp to 1.0, got %v", n.Progress())
	}
	n.SetProgress(-0.5)
	if n.Progress() != 0.0 {
		t.Errorf("progress should clamp to 0.0, got %v", n.Progress())
	}
}

func TestNodeCacheResult(t *testing.T) {
	n := New("LoadCSV", "a", nil, &testOp{
		inputs:  map[string]*InputPort{},
		outputs: map[string]*OutputPort{},
	})

	if n.CachedResult() != nil {
		t.Fatal("new node should have no cached result")
	}

	outputs := map[string]any{"rows": 3}
	n.CacheResult(outputs)

	if n.State() != StateCompleted {
		t.Errorf("CacheResult should transition to completed, got %s", n.State())
	}
	if n.Progress() != 1.0 {
		t.Errorf("CacheResult should set progress 1.0, got %v", n.Progress())
	}
	if got := n.CachedResult(); got == nil || got["rows"] != 3 {
		t.Errorf("unexpected cached result: %v", got)
	}
}

func TestStateIsTerminal(t *testing.T) {
	terminal := []State{StateCompleted, StateFailed, StateSkipped}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	for _, s := range []State{StatePending, StateRunning} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestPortTypeIsValid(t *testing.T) {
	if !PortTypeFile.IsValid() {
		t.Error("file should be a valid port type")
	}
	if PortType("blob").IsValid() {
		t.Error("blob should not be a valid port type")
	}
}
