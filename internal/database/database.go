package database

import (
	"database/sql"
	"errors"
	"fmt"

	"journey/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// Database хранит слоты состояния в SQLite
type Database struct {
	db   *sql.DB
	path string
}

func New(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database %q: %w", path, err)
	}

	d := &Database{db: db, path: path}
	if err := d.init(); err != nil {
		db.Close()
		return nil, err
	}

	config.Logger.Infow("✅ База данных инициализирована", "path", path)
	return d, nil
}

func (d *Database) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	return nil
}

// Get читает значение слота. ok=false, если слот ещё не записан
func (d *Database) Get(key string) ([]byte, bool, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set перезаписывает слот целиком
func (d *Database) Set(key string, value []byte) error {
	_, err := d.db.Exec(`
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) Path() string {
	return d.path
}
