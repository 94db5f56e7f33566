// Package services holds the account business logic: the credential flow
// (sign-up and sign-in) and user administration. Errors returned from this
// package wrap the sentinels in internal/common.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/server/auth"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/bulkassi/webProg2/internal/server/repositories/accounts"
)

// NewAccountInput is the data needed to register an account. An empty Role
// means models.RoleUser.
type NewAccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// accountFactory applies the one creation policy shared by sign-up, admin
// creation and the bootstrap CLI.
type accountFactory struct {
	hasher *auth.PasswordHasher
}

func (f accountFactory) create(ctx context.Context, repo accounts.Repository, in NewAccountInput) (*models.Account, error) {
	account, password, err := validateNewAccount(in)
	if err != nil {
		return nil, err
	}

	if err := ensureFree(ctx, repo.GetByEmail, account.Email); err != nil {
		return nil, err
	}
	if err := ensureFree(ctx, repo.GetByUsername, account.Username); err != nil {
		return nil, err
	}

	account.PasswordHash, err = f.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	created, err := repo.Create(ctx, account)
	if err != nil {
		return nil, storeError(err)
	}
	return created, nil
}

func validateNewAccount(in NewAccountInput) (*models.Account, string, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, "", fmt.Errorf("%w: %s required", common.ErrorValidation, strings.Join(missing, ", "))
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}

	role, err := models.ParseRoleOrDefault(in.Role)
	if err != nil {
		return nil, "", err
	}

	return &models.Account{Username: username, Email: email, Role: role}, in.Password, nil
}

func validateEmail(email string) error {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("%w: email %q is malformed", common.ErrorValidation, email)
	}
	return nil
}

// ensureFree returns ErrorAlreadyExists when lookup finds an account for value.
func ensureFree(ctx context.Context, lookup func(context.Context, string) (*models.Account, error), value string) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return common.ErrorAlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return storeError(err)
	}
}

// storeError passes the repository sentinels through and turns anything else
// into ErrorStore, keeping the cause for logs.
func storeError(err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAlreadyExists) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrorStore, err)
}
