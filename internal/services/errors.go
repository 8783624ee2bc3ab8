package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound цель, веха или запись с таким id отсутствует
	ErrNotFound = errors.New("not found")
	// ErrInvalid входные данные не прошли проверку формы
	ErrInvalid = errors.New("invalid input")
)

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalid)
}

// newID генерирует идентификаторы сущностей, подменяется в тестах
var newID = uuid.NewString
