package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound - запись отсутствует или недоступна текущему пользователю.
	ErrNotFound = errors.New("not found")
	// ErrConflict - нарушено ограничение уникальности.
	ErrConflict = errors.New("already exists")
	// ErrValidation - входные данные не прошли проверку.
	ErrValidation = errors.New("invalid input")
)

// Имена сущностей для NotFoundError.
const (
	EntityUser = "user"
	EntityPost = "post"
)

// NotFoundError уточняет, какая сущность не найдена.
// Для чужих постов возвращается та же ошибка, что и для несуществующих.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound создает NotFoundError.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Invalid оборачивает сообщение в ErrValidation.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
