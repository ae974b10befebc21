package nodes

import (
	"context"

	"github.com/syncflow/syncflow/internal/node"
)

// MergeFileLists объединяет два списка файлов, сохраняя порядок:
// сначала first, затем second. При deduplicate повторные пути отбрасываются.
type MergeFileLists struct{}

func (op *MergeFileLists) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := map[string]*node.InputPort{
		"first": {
			Name: "first", Type: node.PortTypeFileList, Required: true,
			Description: "Первый список файлов",
		},
		"second": {
			Name: "second", Type: node.PortTypeFileList, Required: true,
			Description: "Второй список файлов",
		},
		"deduplicate": {
			Name: "deduplicate", Type: node.PortTypeBoolean, Default: true,
			Description: "Отбрасывать повторяющиеся пути",
		},
	}
	outputs := map[string]*node.OutputPort{
		"files": {
			Name: "files", Type: node.PortTypeFileList,
			Description: "Объединённый список",
		},
		"count": {
			Name: "count", Type: node.PortTypeInteger,
			Description: "Количество файлов в результате",
		},
	}
	return inputs, outputs
}

func (op *MergeFileLists) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	first := asStringSlice(req.Inputs["first"])
	second := asStringSlice(req.Inputs["second"])
	deduplicate := asBool(req.Inputs["deduplicate"])

	merged := make([]string, 0, len(first)+len(second))
	seen := make(map[string]bool, len(first)+len(second))

	add := func(files []string) {
		for _, file := range files {
			if deduplicate && seen[file] {
				continue
			}
			seen[file] = true
			merged = append(merged, file)
		}
	}
	add(first)
	add(second)

	return &node.Response{Outputs: map[string]any{
		"files": merged,
		"count": len(merged),
	}}, nil
}
