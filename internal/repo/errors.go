package repo

import "errors"

// Общие ошибки репозиториев.
var (
	// ErrNotFound — workflow или run не найден в БД.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — конфликт уникальности (имя workflow занято).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidState — операция невозможна в текущем состоянии.
	ErrInvalidState = errors.New("invalid state")
)
