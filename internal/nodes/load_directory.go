package nodes

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/syncflow/syncflow/internal/node"
)

// LoadDirectory собирает список файлов директории.
//
// Шаблон применяется к имени файла (filepath.Match). Список всегда
// отсортирован, чтобы downstream-узлы получали детерминированный вход.
type LoadDirectory struct{}

func (op *LoadDirectory) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := map[string]*node.InputPort{
		"path": {
			Name: "path", Type: node.PortTypeDirectory, Required: true,
			Description: "Директория для сканирования",
		},
		"pattern": {
			Name: "pattern", Type: node.PortTypeString, Default: "*",
			Description: "Шаблон имени файла",
		},
		"recursive": {
			Name: "recursive", Type: node.PortTypeBoolean, Default: false,
			Description: "Спускаться во вложенные директории",
		},
	}
	outputs := map[string]*node.OutputPort{
		"files": {
			Name: "files", Type: node.PortTypeFileList,
			Description: "Найденные файлы",
		},
		"count": {
			Name: "count", Type: node.PortTypeInteger,
			Description: "Количество найденных файлов",
		},
	}
	return inputs, outputs
}

func (op *LoadDirectory) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	root := asString(req.Inputs["path"])
	pattern := asString(req.Inputs["pattern"])
	recursive := asBool(req.Inputs["recursive"])

	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}

		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matched {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory %s does not exist", root)
		}
		return nil, fmt.Errorf("scan directory: %w", err)
	}

	sort.Strings(files)

	req.Logger.Info("directory scanned", "path", root, "files", len(files))

	return &node.Response{Outputs: map[string]any{
		"files": files,
		"count": len(files),
	}}, nil
}
