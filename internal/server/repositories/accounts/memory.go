package accounts

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.Account
	byUsername map[string]string
	byEmail    map[string]string
	order      []string
	now        func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*models.Account),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique("", account.Username, account.Email); err != nil {
		return nil, err
	}

	stored := *account
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.byID[stored.ID] = &stored
	r.byUsername[stored.Username] = stored.ID
	r.byEmail[stored.Email] = stored.ID
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyOf(id)
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.copyOf(id)
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.copyOf(id)
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Account, 0, len(r.order))
	for _, id := range r.order {
		c := *r.byID[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	next := *current
	patch.Apply(&next)
	if err := r.checkUnique(id, next.Username, next.Email); err != nil {
		return nil, err
	}
	next.UpdatedAt = r.now()

	delete(r.byUsername, current.Username)
	delete(r.byEmail, current.Email)
	r.byUsername[next.Username] = id
	r.byEmail[next.Email] = id
	r.byID[id] = &next

	out := next
	return &out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byUsername, a.Username)
	delete(r.byEmail, a.Email)
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

// checkUnique must be called with the write lock held. self is the id of the
// account being updated and is allowed to keep its own username/email.
func (r *MemoryRepository) checkUnique(self, username, email string) error {
	if owner, ok := r.byUsername[username]; ok && owner != self {
		return fmt.Errorf("%w: username %q", common.ErrorAlreadyExists, username)
	}
	if owner, ok := r.byEmail[email]; ok && owner != self {
		return fmt.Errorf("%w: email %q", common.ErrorAlreadyExists, email)
	}
	return nil
}

func (r *MemoryRepository) copyOf(id string) (*models.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}
