// Package workflow описывает workflow как документ: набор узлов,
// соединения между портами и метаданные.
//
// Содержит:
// - workflow.go: модель Workflow и её валидация
// - serializer.go: версионированный формат документа (JSON и YAML)
// - errors.go: ошибки пакета
//
// Сериализуется только статическая конфигурация узлов; входы, питаемые
// соединениями, в документ не попадают. Результаты выполнения и состояние
// узлов не являются частью документа.
package workflow
