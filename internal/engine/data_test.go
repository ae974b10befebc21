package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/syncflow/syncflow/internal/node"
)

func newTestDataManager(t *testing.T) *DataManager {
	t.Helper()

	dm, err := NewDataManager(filepath.Join(t.TempDir(), "run"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return dm
}

func TestResolveInputs_Precedence(t *testing.T) {
	dm := newTestDataManager(t)

	op := &portsOp{inputs: []string{"path", "sep", "limit"}, outputs: nil}
	n := node.New("LoadCSV", "b", map[string]any{"path": "/tmp/in.csv", "limit": 5}, op)
	n.Inputs()["sep"].Default = ","
	n.Inputs()["limit"].Default = 10

	resolved := dm.ResolveInputs(n)

	// Конфигурация поверх default.
	if resolved["limit"] != 5 {
		t.Errorf("config should override default, got %v", resolved["limit"])
	}
	if resolved["sep"] != "," {
		t.Errorf("default should fill absent config, got %v", resolved["sep"])
	}
	if resolved["path"] != "/tmp/in.csv" {
		t.Errorf("unexpected path: %v", resolved["path"])
	}
}

func TestResolveInputs_ConnectionOverridesConfig(t *testing.T) {
	dm := newTestDataManager(t)
	dm.AddConnection(conn("a", "x", "b", "path"))
	dm.SetNodeResult("a", map[string]any{"x": "/tmp/from-upstream.csv"})

	n := node.New("LoadCSV", "b",
		map[string]any{"path": "/tmp/static.csv"},
		&portsOp{inputs: []string{"path"}})

	resolved := dm.ResolveInputs(n)
	if resolved["path"] != "/tmp/from-upstream.csv" {
		t.Errorf("connection value should override config, got %v", resolved["path"])
	}
}

func TestResolveInputs_MissingUpstreamLeavesInputUnresolved(t *testing.T) {
	dm := newTestDataManager(t)
	dm.AddConnection(conn("a", "x", "b", "path"))
	// Узел "a" не произвёл выхода (например, упал).

	n := node.New("LoadCSV", "b", nil, &portsOp{inputs: []string{"path"}})

	resolved := dm.ResolveInputs(n)
	if _, ok := resolved["path"]; ok {
		t.Error("input fed by a failed upstream should stay unresolved")
	}
}

func TestConnectedInputs(t *testing.T) {
	dm := newTestDataManager(t)
	dm.AddConnection(conn("a", "x", "b", "path"))
	dm.AddConnection(conn("a", "x", "c", "other"))

	connected := dm.ConnectedInputs("b")
	if !connected["path"] {
		t.Error("path should be connected for b")
	}
	if connected["other"] {
		t.Error("other belongs to node c, not b")
	}
}

func TestNodeResult(t *testing.T) {
	dm := newTestDataManager(t)

	if _, ok := dm.NodeResult("a", "x"); ok {
		t.Error("unexpected result before execution")
	}

	dm.SetNodeResult("a", map[string]any{"x": 42})

	value, ok := dm.NodeResult("a", "x")
	if !ok || value != 42 {
		t.Errorf("NodeResult = %v, %v; want 42, true", value, ok)
	}
	if _, ok := dm.NodeResult("a", "missing"); ok {
		t.Error("unexpected value for unknown output")
	}
}

func TestTempDirAndCleanup(t *testing.T) {
	base := t.TempDir()

	dm, err := NewDataManager(filepath.Join(base, "run"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir, err := dm.TempDir("nodeA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("temp dir should exist: %v", err)
	}

	// Каждая аллокация — свежая директория.
	other, err := dm.TempDir("nodeA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir == other {
		t.Error("temp dirs must not be shared between invocations")
	}

	if err := dm.Cleanup(); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if _, err := os.Stat(dm.WorkDir()); !os.IsNotExist(err) {
		t.Error("work dir should be removed by Cleanup")
	}
}
