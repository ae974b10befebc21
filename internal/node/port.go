package node

// PortType — тип данных, проходящих через порт.
type PortType string

// Типы портов.
const (
	PortTypeFile          PortType = "file"           // путь к одному файлу
	PortTypeDirectory     PortType = "directory"      // путь к директории
	PortTypeFileList      PortType = "file_list"      // список путей к файлам
	PortTypeURLList       PortType = "url_list"       // список URL
	PortTypeManifest      PortType = "manifest"       // структура манифеста
	PortTypeCSVData       PortType = "csv_data"       // табличные данные из CSV
	PortTypeJSONData      PortType = "json_data"      // произвольный JSON
	PortTypeVideoMetadata PortType = "video_metadata" // свойства видео
	PortTypeSceneList     PortType = "scene_list"     // результаты scene detection
	PortTypeString        PortType = "string"
	PortTypeInteger       PortType = "integer"
	PortTypeFloat         PortType = "float"
	PortTypeBoolean       PortType = "boolean"
)

// IsValid проверяет, что тип порта известен.
func (t PortType) IsValid() bool {
	switch t {
	case PortTypeFile, PortTypeDirectory, PortTypeFileList, PortTypeURLList,
		PortTypeManifest, PortTypeCSVData, PortTypeJSONData, PortTypeVideoMetadata,
		PortTypeSceneList, PortTypeString, PortTypeInteger, PortTypeFloat,
		PortTypeBoolean:
		return true
	default:
		return false
	}
}

// InputPort — входной порт узла.
type InputPort struct {
	// Name — имя порта (уникально в рамках узла).
	Name string

	// Type — тип данных порта.
	Type PortType

	// Required — обязателен ли вход.
	Required bool

	// Default — значение по умолчанию (nil, если его нет).
	Default any

	// Description — описание назначения входа.
	Description string

	// Validator — опциональный предикат для проверки значения.
	Validator func(any) bool
}

// Validate проверяет значение для порта.
//
// nil допустим, если порт не обязателен или имеет default.
// Для остальных значений применяется Validator, если задан.
func (p *InputPort) Validate(value any) bool {
	if value == nil {
		return !p.Required || p.Default != nil
	}

	if p.Validator != nil {
		return p.Validator(value)
	}

	return true
}

// OutputPort — выходной порт узла.
type OutputPort struct {
	// Name — имя порта (уникально в рамках узла).
	Name string

	// Type — тип данных порта.
	Type PortType

	// Description — описание выхода.
	Description string
}
