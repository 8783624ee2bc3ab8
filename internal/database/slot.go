package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Slot именованное долговременное хранилище одного сериализованного значения
type Slot interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

var (
	_ Slot = (*Database)(nil)
	_ Slot = (*FileSlot)(nil)
	_ Slot = (*MemorySlot)(nil)
)

// FileSlot хранит каждый ключ в отдельном JSON файле внутри каталога
type FileSlot struct {
	dir string
}

func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir %q: %w", dir, err)
	}
	return &FileSlot{dir: dir}, nil
}

func (f *FileSlot) filename(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileSlot) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.filename(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot file %q: %w", f.filename(key), err)
	}
	return data, true, nil
}

// Set пишет во временный файл и переименовывает его, чтобы не оставить файл наполовину записанным
func (f *FileSlot) Set(key string, value []byte) error {
	target := f.filename(key)
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", target, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write slot file %q: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close slot file %q: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace slot file %q: %w", target, err)
	}
	return nil
}

// MemorySlot хранит значения в памяти процесса
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemorySlot) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}
