package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/auth"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/bulkassi/webProg2/internal/server/repositories/accounts"
	"github.com/bulkassi/webProg2/internal/server/repositories/repomanager"
	"golang.org/x/sync/singleflight"
)

const listKey = "list"

// UpdateInput is a partial account update. Nil fields are left untouched;
// a non-nil Password is re-hashed.
type UpdateInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UserService implements account administration.
type UserService struct {
	repos   repomanager.Manager
	factory accountFactory
	hasher  *auth.PasswordHasher
	log     logging.Logger
	group   singleflight.Group
}

func NewUserService(m repomanager.Manager, hasher *auth.PasswordHasher, log logging.Logger) *UserService {
	return &UserService{
		repos:   m,
		factory: accountFactory{hasher: hasher},
		hasher:  hasher,
		log:     log.With("component", "users"),
	}
}

// List returns every account. Concurrent calls share one store round trip,
// so the returned accounts must be treated as read-only.
func (s *UserService) List(ctx context.Context) ([]*models.Account, error) {
	ch := s.group.DoChan(listKey, func() (any, error) {
		return s.repos.Accounts().List(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			err := storeError(res.Err)
			s.log.Error(ctx, "list accounts failed", "error", err)
			return nil, err
		}
		return res.Val.([]*models.Account), nil
	}
}

// Create registers an account under the same rules as sign-up, without
// issuing a token.
func (s *UserService) Create(ctx context.Context, in NewAccountInput) (*models.Account, error) {
	account, err := s.factory.create(ctx, s.repos.Accounts(), in)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "account created", "id", account.ID, "username", account.Username, "role", account.Role)
	return account, nil
}

// Update patches the account with the given id.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*models.Account, error) {
	patch, err := s.buildPatch(in)
	if err != nil {
		return nil, err
	}

	var updated *models.Account
	err = s.repos.WithinTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if patch.Empty() {
			updated = current
			return nil
		}

		if patch.Email != nil && *patch.Email != current.Email {
			if err := ensureFree(ctx, repo.GetByEmail, *patch.Email); err != nil {
				return err
			}
		}
		if patch.Username != nil && *patch.Username != current.Username {
			if err := ensureFree(ctx, repo.GetByUsername, *patch.Username); err != nil {
				return err
			}
		}

		updated, err = repo.Update(ctx, id, patch)
		if err != nil {
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "update rejected", "id", id, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "account updated", "id", id, "password_changed", patch.PasswordHash != nil)
	return updated, nil
}

// Delete removes the account with the given id and returns it as it was.
func (s *UserService) Delete(ctx context.Context, id string) (*models.Account, error) {
	var deleted *models.Account
	err := s.repos.WithinTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return storeError(err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return storeError(err)
		}
		deleted = current
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "delete rejected", "id", id, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "account deleted", "id", id, "username", deleted.Username)
	return deleted, nil
}

func (s *UserService) buildPatch(in UpdateInput) (models.AccountPatch, error) {
	var patch models.AccountPatch

	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		if v == "" {
			return patch, fmt.Errorf("%w: username must not be empty", common.ErrorValidation)
		}
		patch.Username = &v
	}
	if in.Email != nil {
		v := strings.TrimSpace(*in.Email)
		if err := validateEmail(v); err != nil {
			return patch, err
		}
		patch.Email = &v
	}
	if in.Role != nil {
		role, err := models.ParseRole(*in.Role)
		if err != nil {
			return patch, err
		}
		patch.Role = &role
	}
	if in.Password != nil {
		if *in.Password == "" {
			return patch, fmt.Errorf("%w: password must not be empty", common.ErrorValidation)
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return patch, err
		}
		patch.PasswordHash = &hash
	}

	return patch, nil
}
