package storage

import (
	"context"
	"sync"
	"time"

	"github.com/linemk/shop-admin/internal/domain/models"
)

// memoryStorage - хранилище сессий в памяти процесса, для локального запуска и тестов
type memoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemoryStorage() TokenStorage {
	return &memoryStorage{sessions: make(map[string]models.Session)}
}

func (m *memoryStorage) Save(_ context.Context, s models.Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStorage) Get(_ context.Context, id string) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *memoryStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memoryStorage) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
