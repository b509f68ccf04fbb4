package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewSessionRepository(db)
	expires := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO admin_sessions").
		WithArgs("sid-1", "admin@shop.test", "tok", sql.NullTime{Time: expires, Valid: true}, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(context.Background(), models.Session{ID: "sid-1", Email: "admin@shop.test", Token: "tok", ExpiresAt: expires, CreatedAt: created})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewSessionRepository(db)
	expires := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "email", "access_token", "expires_at", "created_at"}).
		AddRow("sid-1", "admin@shop.test", "tok", expires, created)
	mock.ExpectQuery("SELECT id, email, access_token, expires_at, created_at FROM admin_sessions WHERE id = \\$1").
		WithArgs("sid-1").WillReturnRows(rows)

	s, err := repo.Get(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "admin@shop.test", s.Email)
	assert.True(t, s.ExpiresAt.Equal(expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewSessionRepository(db)
	mock.ExpectQuery("SELECT id, email, access_token, expires_at, created_at FROM admin_sessions WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "access_token", "expires_at", "created_at"}))

	_, err = repo.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, storage.ErrSessionNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_SchemaMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewSessionRepository(db)
	mock.ExpectExec("DELETE FROM admin_sessions WHERE id = \\$1").
		WithArgs("sid-1").
		WillReturnError(&pq.Error{Code: "42P01", Message: `relation "admin_sessions" does not exist`})

	err = repo.Delete(context.Background(), "sid-1")
	assert.True(t, errors.Is(err, storage.ErrSchemaMissing))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewSessionRepository(db)
	now := time.Now()
	mock.ExpectExec("DELETE FROM admin_sessions WHERE expires_at IS NOT NULL AND expires_at <= \\$1").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// общий сценарий для реализаций без БД
func exerciseStorage(t *testing.T, st storage.TokenStorage) {
	ctx := context.Background()
	now := time.Now()

	_, err := st.Get(ctx, storage.TokenKey)
	assert.True(t, errors.Is(err, storage.ErrSessionNotFound))

	require.NoError(t, st.Save(ctx, models.Session{ID: storage.TokenKey, Email: "admin@shop.test", Token: "tok-1"}))
	require.NoError(t, st.Save(ctx, models.Session{ID: "old", Token: "tok-old", ExpiresAt: now.Add(-time.Minute)}))

	s, err := st.Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)
	assert.False(t, s.CreatedAt.IsZero())

	n, err := st.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = st.Get(ctx, "old")
	assert.True(t, errors.Is(err, storage.ErrSessionNotFound))

	require.NoError(t, st.Delete(ctx, storage.TokenKey))
	_, err = st.Get(ctx, storage.TokenKey)
	assert.True(t, errors.Is(err, storage.ErrSessionNotFound))
	// повторное удаление не ошибка
	assert.NoError(t, st.Delete(ctx, storage.TokenKey))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, storage.NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	exerciseStorage(t, storage.NewFileStorage(path))
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	ctx := context.Background()

	require.NoError(t, storage.NewFileStorage(path).Save(ctx, models.Session{ID: storage.TokenKey, Token: "tok-2"}))

	s, err := storage.NewFileStorage(path).Get(ctx, storage.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", s.Token)
}
