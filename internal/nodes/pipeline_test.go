package nodes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/syncflow/syncflow/internal/engine"
	"github.com/syncflow/syncflow/internal/node"
)

// Сквозной сценарий: скан директории, фильтрация и запись отчёта,
// выполненные настоящим Executor'ом.
func TestBuiltinsPipeline(t *testing.T) {
	reg := node.NewRegistry()
	RegisterBuiltins(reg)

	dir := t.TempDir()
	writeFile(t, dir, "a.mp4", "x")
	writeFile(t, dir, "b.wav", "x")
	writeFile(t, dir, "c.mp4", "x")

	reportPath := filepath.Join(t.TempDir(), "report.json")

	scan, err := reg.NewNode("LoadDirectory", "scan", map[string]any{"path": dir})
	if err != nil {
		t.Fatalf("create scan node: %v", err)
	}
	filter, err := reg.NewNode("FilterFiles", "filter", map[string]any{
		"extensions": "mp4",
	})
	if err != nil {
		t.Fatalf("create filter node: %v", err)
	}
	report, err := reg.NewNode("WriteJSON", "report", map[string]any{
		"path": reportPath,
	})
	if err != nil {
		t.Fatalf("create report node: %v", err)
	}

	nodes := map[string]*node.Node{
		"scan":   scan,
		"filter": filter,
		"report": report,
	}
	conns := []engine.Connection{
		{FromNode: "scan", FromOutput: "files", ToNode: "filter", ToInput: "files"},
		{FromNode: "filter", FromOutput: "files", ToNode: "report", ToInput: "data"},
	}

	e := engine.New(engine.Config{WorkDir: t.TempDir()})
	result, err := e.ExecuteWorkflow(context.Background(), nodes, conns)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !result.Success {
		t.Fatalf("pipeline failed: %v", result.Errors)
	}
	if result.NodeResults["filter"]["count"] != 2 {
		t.Errorf("expected 2 mp4 files, got %v", result.NodeResults["filter"]["count"])
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("report file should exist: %v", err)
	}
}
