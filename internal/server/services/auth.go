package services

import (
	"context"
	"errors"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/auth"
	"github.com/bulkassi/webProg2/internal/server/models"
	"github.com/bulkassi/webProg2/internal/server/repositories/repomanager"
)

// AuthResult is what a successful sign-up or sign-in yields.
type AuthResult struct {
	Account *models.Account
	Token   string
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	repos   repomanager.Manager
	factory accountFactory
	hasher  *auth.PasswordHasher
	codec   *auth.TokenCodec
	log     logging.Logger
}

func NewAuthService(m repomanager.Manager, hasher *auth.PasswordHasher, codec *auth.TokenCodec, log logging.Logger) *AuthService {
	return &AuthService{
		repos:   m,
		factory: accountFactory{hasher: hasher},
		hasher:  hasher,
		codec:   codec,
		log:     log.With("component", "auth"),
	}
}

// SignUp creates an account and returns it with a token for its identity.
// A taken email or username yields common.ErrorAlreadyExists.
func (s *AuthService) SignUp(ctx context.Context, in NewAccountInput) (*AuthResult, error) {
	account, err := s.factory.create(ctx, s.repos.Accounts(), in)
	if err != nil {
		s.logFailure(ctx, "sign-up rejected", in.Username, err)
		return nil, err
	}

	token, err := s.codec.Issue(account.Identity())
	if err != nil {
		s.log.Error(ctx, "token issue failed", "username", account.Username, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "account registered", "id", account.ID, "username", account.Username, "role", account.Role)
	return &AuthResult{Account: account, Token: token}, nil
}

// SignIn checks username and password. An unknown username and a wrong
// password both yield common.ErrorInvalidCredentials and cost one bcrypt
// comparison each.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*AuthResult, error) {
	account, err := s.repos.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			s.log.Warn(ctx, "sign-in rejected", "username", username)
			return nil, common.ErrorInvalidCredentials
		}
		err = storeError(err)
		s.log.Error(ctx, "sign-in lookup failed", "username", username, "error", err)
		return nil, err
	}

	if !s.hasher.Verify(account.PasswordHash, password) {
		s.log.Warn(ctx, "sign-in rejected", "username", username)
		return nil, common.ErrorInvalidCredentials
	}

	token, err := s.codec.Issue(account.Identity())
	if err != nil {
		s.log.Error(ctx, "token issue failed", "username", username, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "signed in", "username", username, "role", account.Role)
	return &AuthResult{Account: account, Token: token}, nil
}

func (s *AuthService) logFailure(ctx context.Context, msg, username string, err error) {
	if errors.Is(err, common.ErrorStore) || errors.Is(err, common.ErrorInternal) {
		s.log.Error(ctx, msg, "username", username, "error", err)
		return
	}
	s.log.Warn(ctx, msg, "username", username, "error", err)
}
