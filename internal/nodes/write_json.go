package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syncflow/syncflow/internal/node"
)

// WriteJSON записывает данные в JSON-файл.
//
// Если path не задан, файл пишется в рабочую директорию вызова под
// именем filename и живёт до конца run — такой вариант подходит только
// для передачи пути downstream-узлам внутри одного запуска.
type WriteJSON struct{}

func (op *WriteJSON) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := map[string]*node.InputPort{
		"data": {
			Name: "data", Type: node.PortTypeJSONData, Required: true,
			Description: "Данные для записи",
		},
		"path": {
			Name: "path", Type: node.PortTypeString, Default: "",
			Description: "Путь результирующего файла (пусто — рабочая директория)",
		},
		"filename": {
			Name: "filename", Type: node.PortTypeString, Default: "output.json",
			Description: "Имя файла при записи в рабочую директорию",
		},
		"indent": {
			Name: "indent", Type: node.PortTypeBoolean, Default: true,
			Description: "Форматировать вывод с отступами",
		},
	}
	outputs := map[string]*node.OutputPort{
		"path": {
			Name: "path", Type: node.PortTypeFile,
			Description: "Путь записанного файла",
		},
		"bytes": {
			Name: "bytes", Type: node.PortTypeInteger,
			Description: "Размер записанных данных",
		},
	}
	return inputs, outputs
}

func (op *WriteJSON) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	var data []byte
	var err error

	if asBool(req.Inputs["indent"]) {
		data, err = json.MarshalIndent(req.Inputs["data"], "", "  ")
	} else {
		data, err = json.Marshal(req.Inputs["data"])
	}
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}

	path := asString(req.Inputs["path"])
	if path == "" {
		path = filepath.Join(req.WorkDir, asString(req.Inputs["filename"]))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write json: %w", err)
	}

	req.Logger.Info("json written", "path", path, "bytes", len(data))

	return &node.Response{Outputs: map[string]any{
		"path":  path,
		"bytes": len(data),
	}}, nil
}
