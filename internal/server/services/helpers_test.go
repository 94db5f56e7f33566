package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/auth"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/bulkassi/webProg2/internal/server/repositories/accounts"
	"github.com/bulkassi/webProg2/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

var errConnRefused = errors.New("connection refused")

func newHasher() *auth.PasswordHasher { return auth.NewPasswordHasher(bcrypt.MinCost) }

func newCodec() *auth.TokenCodec { return auth.NewTokenCodec(testSecret, 0) }

// recordingLogger keeps every formatted entry for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf("%s %s %v", level, msg, args))
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.add("DEBUG", msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.add("INFO", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("WARN", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.add("ERROR", msg, args) }
func (l *recordingLogger) With(...any) logging.Logger                       { return l }

func (l *recordingLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// brokenRepo fails every call like an unreachable store.
type brokenRepo struct{}

func (brokenRepo) Create(context.Context, *models.Account) (*models.Account, error) {
	return nil, fmt.Errorf("db error: %w", errConnRefused)
}
func (brokenRepo) GetByID(context.Context, string) (*models.Account, error) {
	return nil, fmt.Errorf("db error: %w", errConnRefused)
}
func (brokenRepo) GetByUsername(context.Context, string) (*models.Account, error) {
	return nil, fmt.Errorf("db error: %w", errConnRefused)
}
func (brokenRepo) GetByEmail(context.Context, string) (*models.Account, error) {
	return nil, fmt.Errorf("db error: %w", errConnRefused)
}
func (brokenRepo) List(context.Context) ([]*models.Account, error) {
	return nil, fmt.Errorf("db error: %w", errConnRefused)
}
func (brokenRepo) Update(context.Context, string, models.AccountPatch) (*models.Account, error) {
	return nil, fmt.Errorf("db error: %w", errConnRefused)
}
func (brokenRepo) Delete(context.Context, string) error {
	return fmt.Errorf("db error: %w", errConnRefused)
}

// fakeManager serves a fixed repository.
type fakeManager struct {
	repo accounts.Repository
}

func (m fakeManager) Accounts() accounts.Repository       { return m.repo }
func (m fakeManager) RunMigrations(context.Context) error { return nil }
func (m fakeManager) Close(context.Context) error         { return nil }
func (m fakeManager) WithinTx(ctx context.Context, fn func(context.Context, accounts.Repository) error) error {
	return fn(ctx, m.repo)
}

var _ repomanager.Manager = fakeManager{}

// countingRepo counts List calls and blocks them until release is closed.
type countingRepo struct {
	accounts.Repository
	calls   atomic.Int32
	release chan struct{}
}

func (r *countingRepo) List(ctx context.Context) ([]*models.Account, error) {
	r.calls.Add(1)
	<-r.release
	return r.Repository.List(ctx)
}

func signUp(t *testing.T, s *AuthService, username, email, password, role string) *AuthResult {
	t.Helper()
	res, err := s.SignUp(context.Background(), NewAccountInput{Username: username, Email: email, Password: password, Role: role})
	if err != nil {
		t.Fatalf("sign-up %s: %v", username, err)
	}
	return res
}
