package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/config"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/bulkassi/webProg2/internal/server/repositories/accounts"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestNew_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory}

	m, err := New(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)
	require.IsType(t, &MemoryManager{}, m)
	require.NoError(t, m.RunMigrations(context.Background()))
	require.NoError(t, m.Close(context.Background()))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StoreDriver: "redis"}, logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"redis"`)
}

func TestNew_MongoBadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	cfg := &config.Config{StoreDriver: config.StoreMongo, MongoURI: "not-a-mongo-uri", MongoDatabase: "x"}
	_, err := New(ctx, cfg, logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect mongo")
}

func TestMemoryManager_SharesOneStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryManager()

	created, err := m.Accounts().Create(ctx, &models.Account{Username: "pupkin", Email: "p@mail.ru", Role: models.RoleUser})
	require.NoError(t, err)

	err = m.WithinTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "pupkin", got.Username)
		return nil
	})
	require.NoError(t, err)
}

func TestPostgresManager_Accounts(t *testing.T) {
	db, _ := newMock(t)
	m := NewPostgresManager(db)

	var _ accounts.Repository = m.Accounts()
	assert.IsType(t, &accounts.PostgresRepository{}, m.Accounts())
}

func TestPostgresManager_WithinTxCommits(t *testing.T) {
	db, mock := newMock(t)
	m := NewPostgresManager(db)
	id := "8f14e45f-ceea-4e6f-a7f4-3b2f1c1f0a11"

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.WithinTx(context.Background(), func(ctx context.Context, repo accounts.Repository) error {
		return repo.Delete(ctx, id)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresManager_WithinTxRollsBack(t *testing.T) {
	db, mock := newMock(t)
	m := NewPostgresManager(db)
	id := "8f14e45f-ceea-4e6f-a7f4-3b2f1c1f0a11"

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := m.WithinTx(context.Background(), func(ctx context.Context, repo accounts.Repository) error {
		return repo.Delete(ctx, id)
	})
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresManager_RunMigrations(t *testing.T) {
	db, _ := newMock(t)
	m := NewPostgresManager(db)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	t.Run("success", func(t *testing.T) {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		}
		require.NoError(t, m.RunMigrations(context.Background()))
		assert.Equal(t, ".", gotDir)
	})

	t.Run("failure is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return boom
		}
		err := m.RunMigrations(context.Background())
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "migrate")
	})
}

func TestPostgresManager_Close(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectClose()

	require.NoError(t, NewPostgresManager(db).Close(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
