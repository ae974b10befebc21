package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syncflow/syncflow/internal/node"
)

// DocumentVersion — текущая версия формата документа.
// Минорные ревизии внутри "1." читаются без миграции.
const DocumentVersion = "1.0"

// Document — сериализуемое представление workflow.
type Document struct {
	Version     string          `json:"version" yaml:"version"`
	Metadata    map[string]any  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Nodes       []NodeDef       `json:"nodes" yaml:"nodes"`
	Connections []ConnectionDef `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// NodeDef — один узел в документе.
//
// Inputs содержит только статическую конфигурацию: значения для входов,
// питаемых соединениями, восстанавливаются во время выполнения.
type NodeDef struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Inputs   map[string]any `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Position []float64      `json:"position,omitempty" yaml:"position,omitempty"`
}

// ConnectionDef — одно соединение в документе.
type ConnectionDef struct {
	From Endpoint `json:"from" yaml:"from"`
	To   Endpoint `json:"to" yaml:"to"`
}

// Endpoint — конец соединения: узел и имя порта.
// Для from заполняется Output, для to — Input.
type Endpoint struct {
	Node   string `json:"node" yaml:"node"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Input  string `json:"input,omitempty" yaml:"input,omitempty"`
}

// Serializer преобразует Workflow в Document и обратно.
// Десериализация создаёт узлы через реестр типов.
type Serializer struct {
	registry *node.Registry
}

// NewSerializer создаёт Serializer поверх реестра reg.
func NewSerializer(reg *node.Registry) *Serializer {
	return &Serializer{registry: reg}
}

// Serialize преобразует workflow в документ.
//
// Узлы упорядочиваются по ID, чтобы представление было детерминированным.
func (s *Serializer) Serialize(w *Workflow) *Document {
	doc := &Document{
		Version:  DocumentVersion,
		Metadata: w.Metadata,
	}

	ids := make([]string, 0, len(w.Nodes))
	for id := range w.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := w.Nodes[id]
		connected := w.ConnectedInputs(id)

		def := NodeDef{ID: id, Type: n.Type()}

		for name, value := range n.Config() {
			if name == "position" {
				def.Position = toPosition(value)
				continue
			}
			if connected[name] {
				continue
			}
			if def.Inputs == nil {
				def.Inputs = make(map[string]any)
			}
			def.Inputs[name] = value
		}

		doc.Nodes = append(doc.Nodes, def)
	}

	for _, c := range w.Connections {
		doc.Connections = append(doc.Connections, ConnectionDef{
			From: Endpoint{Node: c.FromNode, Output: c.FromOutput},
			To:   Endpoint{Node: c.ToNode, Input: c.ToInput},
		})
	}

	return doc
}

// Deserialize восстанавливает workflow из документа.
func (s *Serializer) Deserialize(doc *Document) (*Workflow, error) {
	if !strings.HasPrefix(doc.Version, "1.") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, doc.Version)
	}

	w := New()
	if doc.Metadata != nil {
		w.Metadata = doc.Metadata
	}

	for _, def := range doc.Nodes {
		config := make(map[string]any, len(def.Inputs)+1)
		for name, value := range def.Inputs {
			config[name] = value
		}
		if len(def.Position) > 0 {
			config["position"] = def.Position
		}

		n, err := s.registry.NewNode(def.Type, def.ID, config)
		if err != nil {
			return nil, err
		}
		if err := w.AddNode(n); err != nil {
			return nil, err
		}
	}

	for _, c := range doc.Connections {
		w.Connect(c.From.Node, c.From.Output, c.To.Node, c.To.Input)
	}

	return w, nil
}

// Save записывает workflow в файл. Формат выбирается по расширению:
// .yaml/.yml — YAML, .json — JSON.
func (s *Serializer) Save(w *Workflow, path string) error {
	doc := s.Serialize(w)

	data, err := marshalDocument(doc, path)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Load читает workflow из файла. Формат выбирается по расширению.
func (s *Serializer) Load(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	var doc Document
	switch ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse workflow yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse workflow json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	return s.Deserialize(&doc)
}

func marshalDocument(doc *Document, path string) ([]byte, error) {
	switch ext(path) {
	case ".yaml", ".yml":
		return yaml.Marshal(doc)
	case ".json":
		return json.MarshalIndent(doc, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// toPosition приводит значение позиции к []float64.
// После JSON-декодирования числа приходят как float64, после YAML — как int.
func toPosition(value any) []float64 {
	switch v := value.(type) {
	case []float64:
		return v
	case []any:
		pos := make([]float64, 0, len(v))
		for _, item := range v {
			switch num := item.(type) {
			case float64:
				pos = append(pos, num)
			case int:
				pos = append(pos, float64(num))
			}
		}
		return pos
	default:
		return nil
	}
}
