package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Well-known local storage keys
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// LocalStorage is a string key/value store persisted in SQLite. Values are
// sealed at rest when a Sealer is configured.
type LocalStorage struct {
	db     *DB
	sealer *Sealer
}

// NewLocalStorage creates a new local storage repository. sealer may be nil.
func NewLocalStorage(db *DB, sealer *Sealer) *LocalStorage {
	return &LocalStorage{db: db, sealer: sealer}
}

// GetItem returns the value stored under key and whether it exists
func (s *LocalStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM local_storage WHERE key = ?", key).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}

	value, err := s.sealer.Open(stored)
	if err != nil {
		return "", false, fmt.Errorf("failed to open %q: %w", key, err)
	}
	return value, true, nil
}

// SetItem stores value under key, replacing any previous value
func (s *LocalStorage) SetItem(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("failed to seal %q: %w", key, err)
	}

	query := `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, sealed, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key if present
func (s *LocalStorage) RemoveItem(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM local_storage WHERE key = ?", key)
	return err
}

// Clear removes every key
func (s *LocalStorage) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM local_storage")
	return err
}

// Keys lists the stored keys in order
func (s *LocalStorage) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM local_storage ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Memory is an in-process local storage with the same contract as
// LocalStorage. Nothing survives a restart.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// GetItem returns the value stored under key and whether it exists
func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem stores value under key
func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// RemoveItem deletes key if present
func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Clear removes every key
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]string)
	return nil
}

// Keys lists the stored keys in order
func (m *Memory) Keys(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
