package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/linemk/shop-admin/internal/domain/models"
)

// TokenKey - фиксированный ключ, под которым CLI хранит токен
const TokenKey = "fh_auth_token"

type fileEntry struct {
	Email     string    `json:"email,omitempty"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// fileStorage хранит сессии в JSON-файле (ключ - идентификатор сессии)
type fileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage создаёт файловое хранилище; файл создаётся при первом сохранении
func NewFileStorage(path string) TokenStorage {
	return &fileStorage{path: path}
}

func (f *fileStorage) load() (map[string]fileEntry, error) {
	entries := make(map[string]fileEntry)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *fileStorage) store(entries map[string]fileEntry) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *fileStorage) Save(_ context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	entries[s.ID] = fileEntry{Email: s.Email, Token: s.Token, ExpiresAt: s.ExpiresAt, CreatedAt: s.CreatedAt}
	return f.store(entries)
}

func (f *fileStorage) Get(_ context.Context, id string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return models.Session{}, err
	}
	e, ok := entries[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return models.Session{ID: id, Email: e.Email, Token: e.Token, ExpiresAt: e.ExpiresAt, CreatedAt: e.CreatedAt}, nil
}

func (f *fileStorage) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := entries[id]; !ok {
		return nil
	}
	delete(entries, id)
	return f.store(entries)
}

func (f *fileStorage) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return 0, err
	}
	var n int64
	for id, e := range entries {
		if !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt) {
			delete(entries, id)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, f.store(entries)
}
