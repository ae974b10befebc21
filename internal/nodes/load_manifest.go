package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/syncflow/syncflow/internal/node"
)

// LoadManifest читает JSON-манифест: массив записей с метаданными файлов.
//
// Помимо самих записей отдаёт список путей, извлечённых из поля
// path_field каждой записи, — его удобно подавать на file_list входы.
type LoadManifest struct{}

func (op *LoadManifest) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := map[string]*node.InputPort{
		"path": {
			Name: "path", Type: node.PortTypeFile, Required: true,
			Description: "Путь к JSON-манифесту",
		},
		"path_field": {
			Name: "path_field", Type: node.PortTypeString, Default: "file",
			Description: "Поле записи, содержащее путь к файлу",
		},
	}
	outputs := map[string]*node.OutputPort{
		"entries": {
			Name: "entries", Type: node.PortTypeManifest,
			Description: "Записи манифеста",
		},
		"files": {
			Name: "files", Type: node.PortTypeFileList,
			Description: "Пути, извлечённые из записей",
		},
		"count": {
			Name: "count", Type: node.PortTypeInteger,
			Description: "Количество записей",
		},
	}
	return inputs, outputs
}

func (op *LoadManifest) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	path := asString(req.Inputs["path"])

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	pathField := asString(req.Inputs["path_field"])

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if file, ok := entry[pathField].(string); ok && file != "" {
			files = append(files, file)
		}
	}

	req.Logger.Info("manifest loaded", "path", path, "entries", len(entries))

	return &node.Response{Outputs: map[string]any{
		"entries": entries,
		"files":   files,
		"count":   len(entries),
	}}, nil
}
