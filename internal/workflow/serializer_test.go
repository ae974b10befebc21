package workflow

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/syncflow/syncflow/internal/node"
)

func TestSerialize_OmitsConnectedInputs(t *testing.T) {
	reg := newTestRegistry()
	w := buildTestWorkflow(t, reg)

	doc := NewSerializer(reg).Serialize(w)

	if doc.Version != DocumentVersion {
		t.Errorf("expected version %s, got %s", DocumentVersion, doc.Version)
	}
	if len(doc.Nodes) != 2 || len(doc.Connections) != 1 {
		t.Fatalf("unexpected document shape: %d nodes, %d connections",
			len(doc.Nodes), len(doc.Connections))
	}

	// Узлы отсортированы по ID: sink, src.
	sink := doc.Nodes[0]
	if sink.ID != "sink" {
		t.Fatalf("expected sink first, got %s", sink.ID)
	}
	if _, ok := sink.Inputs["data"]; ok {
		t.Error("connection-fed input must not be serialized")
	}
	if sink.Inputs["limit"] != 5 {
		t.Errorf("static input should be serialized, got %v", sink.Inputs["limit"])
	}

	src := doc.Nodes[1]
	if len(src.Position) != 2 || src.Position[0] != 10 {
		t.Errorf("position should be lifted out of inputs, got %v", src.Position)
	}
	if _, ok := src.Inputs["position"]; ok {
		t.Error("position must not remain among inputs")
	}
}

func TestSerializer_RoundTripJSON(t *testing.T) {
	testRoundTrip(t, "pipeline.json")
}

func TestSerializer_RoundTripYAML(t *testing.T) {
	testRoundTrip(t, "pipeline.yaml")
}

func testRoundTrip(t *testing.T, filename string) {
	t.Helper()

	reg := newTestRegistry()
	s := NewSerializer(reg)
	w := buildTestWorkflow(t, reg)

	path := filepath.Join(t.TempDir(), filename)
	if err := s.Save(w, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Name() != "test-pipeline" {
		t.Errorf("metadata lost in round trip: %q", loaded.Name())
	}
	if len(loaded.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(loaded.Nodes))
	}
	if len(loaded.Connections) != 1 {
		t.Fatalf("expected 1 connection, got %d", len(loaded.Connections))
	}

	c := loaded.Connections[0]
	if c.FromNode != "src" || c.FromOutput != "data" || c.ToNode != "sink" || c.ToInput != "data" {
		t.Errorf("connection lost in round trip: %+v", c)
	}

	src := loaded.Nodes["src"]
	if src.Type() != "Source" {
		t.Errorf("expected type Source, got %s", src.Type())
	}
	if src.Config()["path"] != "/data/in.csv" {
		t.Errorf("config lost in round trip: %v", src.Config()["path"])
	}
	pos := toPosition(src.Config()["position"])
	if len(pos) != 2 || pos[0] != 10 || pos[1] != 20 {
		t.Errorf("position lost in round trip: %v", src.Config()["position"])
	}

	if err := loaded.Validate(); err != nil {
		t.Errorf("round-tripped workflow should stay valid: %v", err)
	}
}

func TestDeserialize_UnknownNodeType(t *testing.T) {
	s := NewSerializer(newTestRegistry())

	doc := &Document{
		Version: DocumentVersion,
		Nodes:   []NodeDef{{ID: "a", Type: "Nope"}},
	}

	if _, err := s.Deserialize(doc); !errors.Is(err, node.ErrUnknownNodeType) {
		t.Errorf("expected ErrUnknownNodeType, got %v", err)
	}
}

func TestDeserialize_UnsupportedVersion(t *testing.T) {
	s := NewSerializer(newTestRegistry())

	doc := &Document{Version: "2.0"}
	if _, err := s.Deserialize(doc); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestSave_UnsupportedFormat(t *testing.T) {
	reg := newTestRegistry()
	s := NewSerializer(reg)
	w := buildTestWorkflow(t, reg)

	err := s.Save(w, filepath.Join(t.TempDir(), "pipeline.toml"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
