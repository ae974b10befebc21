package nodes

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/syncflow/syncflow/internal/node"
)

// FilterFiles фильтрует список файлов по шаблону имени, расширениям
// и ограничению на количество.
type FilterFiles struct{}

func (op *FilterFiles) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := map[string]*node.InputPort{
		"files": {
			Name: "files", Type: node.PortTypeFileList, Required: true,
			Description: "Входной список файлов",
		},
		"pattern": {
			Name: "pattern", Type: node.PortTypeString, Default: "*",
			Description: "Шаблон имени файла",
		},
		"extensions": {
			Name: "extensions", Type: node.PortTypeString, Default: "",
			Description: "Допустимые расширения через запятую (пусто — любые)",
		},
		"limit": {
			Name: "limit", Type: node.PortTypeInteger, Default: 0,
			Description: "Максимум файлов в результате (0 — без ограничения)",
		},
	}
	outputs := map[string]*node.OutputPort{
		"files": {
			Name: "files", Type: node.PortTypeFileList,
			Description: "Отфильтрованный список",
		},
		"count": {
			Name: "count", Type: node.PortTypeInteger,
			Description: "Количество файлов после фильтрации",
		},
	}
	return inputs, outputs
}

func (op *FilterFiles) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	files := asStringSlice(req.Inputs["files"])
	pattern := asString(req.Inputs["pattern"])
	limit := asInt(req.Inputs["limit"])

	extensions := make(map[string]bool)
	for _, ext := range strings.Split(asString(req.Inputs["extensions"]), ",") {
		ext = strings.TrimSpace(strings.ToLower(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = true
	}

	filtered := make([]string, 0, len(files))
	for _, file := range files {
		matched, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if !matched {
			continue
		}
		if len(extensions) > 0 && !extensions[strings.ToLower(filepath.Ext(file))] {
			continue
		}

		filtered = append(filtered, file)
		if limit > 0 && len(filtered) == limit {
			break
		}
	}

	return &node.Response{Outputs: map[string]any{
		"files": filtered,
		"count": len(filtered),
	}}, nil
}
