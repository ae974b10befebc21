package workflow

import "errors"

// Ошибки пакета workflow.
var (
	// ErrDuplicateNodeID — узел с таким ID уже есть в workflow.
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// ErrUnsupportedVersion — версия документа не поддерживается.
	ErrUnsupportedVersion = errors.New("unsupported document version")

	// ErrUnsupportedFormat — расширение файла не соответствует
	// ни одному известному формату.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
