package repomanager

import (
	"context"

	"github.com/bulkassi/webProg2/internal/server/repositories/accounts"
)

// MemoryManager keeps accounts in process memory.
type MemoryManager struct {
	repo *accounts.MemoryRepository
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{repo: accounts.NewMemoryRepository()}
}

func (m *MemoryManager) Accounts() accounts.Repository       { return m.repo }
func (m *MemoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryManager) Close(context.Context) error         { return nil }

func (m *MemoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	return fn(ctx, m.repo)
}
