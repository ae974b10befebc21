package nodes

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/syncflow/syncflow/internal/node"
)

// LoadCSV читает CSV-файл и отдаёт строки как список записей.
//
// При has_header строки представляются как map заголовок→значение,
// иначе — как срез значений колонок.
type LoadCSV struct{}

func (op *LoadCSV) Ports() (map[string]*node.InputPort, map[string]*node.OutputPort) {
	inputs := map[string]*node.InputPort{
		"path": {
			Name: "path", Type: node.PortTypeFile, Required: true,
			Description: "Путь к CSV-файлу",
		},
		"delimiter": {
			Name: "delimiter", Type: node.PortTypeString, Default: ",",
			Description: "Разделитель колонок (один символ)",
			Validator: func(v any) bool {
				s, ok := v.(string)
				return ok && len(s) == 1
			},
		},
		"has_header": {
			Name: "has_header", Type: node.PortTypeBoolean, Default: true,
			Description: "Первая строка содержит заголовки колонок",
		},
	}
	outputs := map[string]*node.OutputPort{
		"data": {
			Name: "data", Type: node.PortTypeCSVData,
			Description: "Строки таблицы",
		},
		"columns": {
			Name: "columns", Type: node.PortTypeJSONData,
			Description: "Имена колонок (пусто без заголовка)",
		},
		"rows": {
			Name: "rows", Type: node.PortTypeInteger,
			Description: "Количество строк данных",
		},
	}
	return inputs, outputs
}

func (op *LoadCSV) Execute(ctx context.Context, req *node.Request) (*node.Response, error) {
	path := asString(req.Inputs["path"])

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = rune(asString(req.Inputs["delimiter"])[0])

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var columns []string
	var data []any

	if asBool(req.Inputs["has_header"]) {
		if len(records) == 0 {
			return nil, fmt.Errorf("csv file %s has no header row", path)
		}
		columns = records[0]
		for _, record := range records[1:] {
			row := make(map[string]any, len(columns))
			for i, col := range columns {
				if i < len(record) {
					row[col] = record[i]
				}
			}
			data = append(data, row)
		}
	} else {
		for _, record := range records {
			data = append(data, record)
		}
	}

	req.Logger.Info("csv loaded", "path", path, "rows", len(data))

	return &node.Response{Outputs: map[string]any{
		"data":    data,
		"columns": columns,
		"rows":    len(data),
	}}, nil
}
