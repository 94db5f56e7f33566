// Package accounts persists user accounts. Every backend reports a missing
// account as common.ErrorNotFound and a username/email clash as
// common.ErrorAlreadyExists; other failures are wrapped driver errors.
package accounts

import (
	"context"

	"github.com/bulkassi/webProg2/internal/server/models"
)

type Repository interface {
	// Create stores a new account and returns it with ID and timestamps set.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// List returns every account, oldest first.
	List(ctx context.Context) ([]*models.Account, error)
	// Update applies patch to the account with the given id and returns the
	// stored result.
	Update(ctx context.Context, id string, patch models.AccountPatch) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}
