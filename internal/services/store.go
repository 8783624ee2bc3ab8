package services

import (
	"fmt"
	"sync"

	"journey/internal/config"
	"journey/internal/database"
)

// Store единственный владелец состояния в памяти. Все фронтенды получают его явно
type Store struct {
	repo *database.Repository

	mu          sync.RWMutex
	state       database.AppState
	revision    uint64
	subscribers map[int]func(database.AppState)
	nextSub     int
}

func NewStore(repo *database.Repository) *Store {
	return &Store{
		repo:        repo,
		state:       database.DefaultState(),
		subscribers: make(map[int]func(database.AppState)),
	}
}

// Load перечитывает состояние из репозитория
func (s *Store) Load() database.AppState {
	state := s.repo.Load()

	s.mu.Lock()
	s.state = state
	s.revision++
	s.mu.Unlock()

	return state
}

// State возвращает текущий снимок. Снимок только для чтения: изменения идут через Mutate
func (s *Store) State() database.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Revision счётчик изменений, ключ для кэша производной статистики
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Mutate применяет fn, сохраняет результат и уведомляет подписчиков.
// Ошибка fn отменяет изменение. Ошибка записи только логируется: состояние в памяти уже обновлено
func (s *Store) Mutate(fn func(database.AppState) (database.AppState, error)) (database.AppState, error) {
	next, saveErr, err := s.apply(fn)
	if err != nil {
		return next, err
	}
	if saveErr != nil {
		config.Logger.Errorw("⚠️ Ошибка сохранения состояния", "error", saveErr)
	}
	return next, nil
}

// Replace заменяет состояние целиком, например при импорте.
// В отличие от Mutate возвращает ошибку записи; состояние в памяти при этом всё равно заменено
func (s *Store) Replace(state database.AppState) (database.AppState, error) {
	next, saveErr, _ := s.apply(func(database.AppState) (database.AppState, error) {
		return state, nil
	})
	if saveErr != nil {
		return next, fmt.Errorf("save replaced state: %w", saveErr)
	}
	return next, nil
}

// apply выполняет fn под блокировкой, пишет результат один раз и оповещает подписчиков
func (s *Store) apply(fn func(database.AppState) (database.AppState, error)) (next database.AppState, saveErr, err error) {
	s.mu.Lock()
	next, err = fn(s.state)
	if err != nil {
		next = s.state
		s.mu.Unlock()
		return next, nil, err
	}
	s.state = next
	s.revision++
	saveErr = s.repo.Save(next)

	subscribers := make([]func(database.AppState), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subscribers = append(subscribers, sub)
	}
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub(next)
	}
	return next, saveErr, nil
}

// Subscribe регистрирует наблюдателя изменений и возвращает функцию отписки
func (s *Store) Subscribe(fn func(database.AppState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
