package database

import (
	"errors"
	"fmt"
)

// SchemaVersion текущая версия формата сохранённого состояния
const SchemaVersion = 1

// ErrNewerSchema возвращается при попытке перезаписать состояние более новой версии
var ErrNewerSchema = errors.New("stored state uses a newer schema version")

// migrations[v] переводит объект из версии v в версию v+1
var migrations = map[int]func(obj map[string]any) error{
	0: migrateV0,
}

// schemaVersion читает поле version; отсутствие поля означает версию 0
func schemaVersion(obj map[string]any) (int, error) {
	raw, ok := obj["version"]
	if !ok || raw == nil {
		return 0, nil
	}
	f, ok := raw.(float64)
	if !ok || f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid schema version %v", raw)
	}
	return int(f), nil
}

// migrate последовательно применяет миграции и возвращает исходную версию
func migrate(obj map[string]any) (int, error) {
	from, err := schemaVersion(obj)
	if err != nil {
		return 0, err
	}
	if from > SchemaVersion {
		return from, nil
	}
	for v := from; v < SchemaVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return from, fmt.Errorf("no migration from schema version %d", v)
		}
		if err := step(obj); err != nil {
			return from, fmt.Errorf("migrate schema %d -> %d: %w", v, v+1, err)
		}
		obj["version"] = float64(v + 1)
	}
	return from, nil
}

// migrateV0 данные без версии: заполняем отсутствующие списки
func migrateV0(obj map[string]any) error {
	for _, field := range []string{"goals", "entries", "dayProgress"} {
		ensureList(obj, field)
	}

	for _, g := range obj["goals"].([]any) {
		goal, ok := g.(map[string]any)
		if !ok {
			return fmt.Errorf("goal is not an object: %v", g)
		}
		ensureList(goal, "milestones")
	}

	for _, e := range obj["entries"].([]any) {
		entry, ok := e.(map[string]any)
		if !ok {
			return fmt.Errorf("entry is not an object: %v", e)
		}
		ensureList(entry, "linkedGoals")
		ensureList(entry, "tags")
	}
	return nil
}

func ensureList(obj map[string]any, field string) {
	if _, ok := obj[field].([]any); !ok {
		obj[field] = []any{}
	}
}
