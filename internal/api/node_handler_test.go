package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/syncflow/syncflow/internal/node"
	"github.com/syncflow/syncflow/internal/nodes"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	reg := node.NewRegistry()
	nodes.RegisterBuiltins(reg)

	h := NewHandler(Config{
		Registry: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func TestListNodeTypes(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/nodes", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []NodeTypeResponse `json:"data"`
		Total int                `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Total == 0 {
		t.Fatal("expected registered node types")
	}

	// Реестр отдаёт типы отсортированными.
	for i := 1; i < len(resp.Data); i++ {
		if resp.Data[i-1].Type > resp.Data[i].Type {
			t.Errorf("types should be sorted: %s > %s", resp.Data[i-1].Type, resp.Data[i].Type)
		}
	}
}

func TestGetNodeType(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/nodes/LoadCSV", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data NodeTypeResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Data.Type != "LoadCSV" || len(resp.Data.Inputs) == 0 || len(resp.Data.Outputs) == 0 {
		t.Errorf("incomplete node type description: %+v", resp.Data)
	}
}

func TestGetNodeType_NotFound(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/nodes/Nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
