// Package nodes содержит встроенные типы узлов.
//
// Содержит:
// - load_csv.go: чтение CSV-таблиц
// - load_manifest.go: чтение JSON-манифестов
// - load_directory.go: листинг файлов директории
// - filter_files.go: фильтрация списков файлов
// - merge_file_lists.go: объединение списков файлов
// - write_json.go: запись результатов в JSON
// - convert.go: приведение входных значений к ожидаемым типам
//
// RegisterBuiltins регистрирует все встроенные типы в реестре.
// Значения входов приходят как any (в том числе из JSON/YAML документов),
// поэтому каждая операция приводит их через хелперы convert.go.
package nodes
