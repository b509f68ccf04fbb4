package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/linemk/shop-admin/internal/domain/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrSchemaMissing - таблица admin_sessions не создана, нужно запустить migrator
	ErrSchemaMissing = errors.New("admin_sessions table is missing, run migrations")
)

// TokenStorage хранит bearer-токены backend по идентификатору сессии
type TokenStorage interface {
	Save(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired удаляет сессии, истёкшие к моменту now, и возвращает их количество
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// sessionRepository - реализация TokenStorage поверх Postgres
type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository создаёт репозиторий сессий
func NewSessionRepository(db *sql.DB) TokenStorage {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Save(ctx context.Context, s models.Session) error {
	query := `INSERT INTO admin_sessions (id, email, access_token, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, access_token = EXCLUDED.access_token, expires_at = EXCLUDED.expires_at`
	var expiresAt sql.NullTime
	if !s.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: s.ExpiresAt, Valid: true}
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Email, s.Token, expiresAt, createdAt); err != nil {
		return fmt.Errorf("failed to save session: %w", mapPQError(err))
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (models.Session, error) {
	var (
		s         models.Session
		expiresAt sql.NullTime
	)
	row := r.db.QueryRowContext(ctx, "SELECT id, email, access_token, expires_at, created_at FROM admin_sessions WHERE id = $1", id)
	if err := row.Scan(&s.ID, &s.Email, &s.Token, &expiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, mapPQError(err)
	}
	if expiresAt.Valid {
		s.ExpiresAt = expiresAt.Time
	}
	return s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM admin_sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", mapPQError(err))
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM admin_sessions WHERE expires_at IS NOT NULL AND expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", mapPQError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// mapPQError превращает undefined_table (42P01) в ErrSchemaMissing
func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
	}
	return err
}
