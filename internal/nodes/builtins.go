package nodes

import "github.com/syncflow/syncflow/internal/node"

// RegisterBuiltins регистрирует все встроенные типы узлов в реестре reg.
func RegisterBuiltins(reg *node.Registry) {
	reg.Register("LoadCSV", func() node.Op { return &LoadCSV{} }, node.Meta{
		Category:    "io",
		Description: "Читает CSV-файл и отдаёт строки таблицы",
	})
	reg.Register("LoadManifest", func() node.Op { return &LoadManifest{} }, node.Meta{
		Category:    "io",
		Description: "Читает JSON-манифест со списком записей",
	})
	reg.Register("LoadDirectory", func() node.Op { return &LoadDirectory{} }, node.Meta{
		Category:    "io",
		Description: "Собирает список файлов директории по шаблону",
	})
	reg.Register("FilterFiles", func() node.Op { return &FilterFiles{} }, node.Meta{
		Category:    "transform",
		Description: "Фильтрует список файлов по шаблону и расширениям",
	})
	reg.Register("MergeFileLists", func() node.Op { return &MergeFileLists{} }, node.Meta{
		Category:    "transform",
		Description: "Объединяет два списка файлов",
	})
	reg.Register("WriteJSON", func() node.Op { return &WriteJSON{} }, node.Meta{
		Category:    "io",
		Description: "Записывает данные в JSON-файл",
	})
	reg.Register("DownloadFile", func() node.Op { return &DownloadFile{} }, node.Meta{
		Category:    "io",
		Description: "Скачивает файл по HTTP(S)",
	})
}
