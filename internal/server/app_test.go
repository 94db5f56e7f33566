package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/config"
	"github.com/bulkassi/webProg2/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StoreDriver = config.StoreMemory
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.ShutdownTimeout = time.Second
	c.LogLevel = "error"
	return c
}

type trackingManager struct {
	*repomanager.MemoryManager
	migrateErr error
	closed     bool
}

func (m *trackingManager) RunMigrations(context.Context) error { return m.migrateErr }
func (m *trackingManager) Close(context.Context) error         { m.closed = true; return nil }

func withManager(t *testing.T, m repomanager.Manager, err error) {
	t.Helper()
	orig := newManager
	t.Cleanup(func() { newManager = orig })
	newManager = func(context.Context, *config.Config, logging.Logger) (repomanager.Manager, error) {
		return m, err
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	c := memoryConfig()
	c.SecretKey = ""

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewApp_StoreInitError(t *testing.T) {
	withManager(t, nil, errors.New("dial tcp: refused"))

	_, err := NewApp(context.Background(), memoryConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store init error")
}

func TestNewApp_MigrationErrorClosesStore(t *testing.T) {
	m := &trackingManager{MemoryManager: repomanager.NewMemoryManager(), migrateErr: errors.New("bad sql")}
	withManager(t, m, nil)

	_, err := NewApp(context.Background(), memoryConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store migration error")
	assert.True(t, m.closed)
}

func TestApp_RunStopsAndClosesStore(t *testing.T) {
	m := &trackingManager{MemoryManager: repomanager.NewMemoryManager()}
	withManager(t, m, nil)

	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.True(t, m.closed)
}
