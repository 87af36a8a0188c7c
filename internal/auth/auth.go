// Package auth is the authentication and ownership-authorization
// core: password hashing, stateless bearer tokens, the register/login
// service, and the owner-only mutation guard.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/openboard-dev/openboard/internal/model"
	"github.com/openboard-dev/openboard/internal/store"
)

const bearerScheme = "Bearer "

// Service orchestrates registration, login and request
// authentication over an injected user store. It holds no mutable
// state; concurrent requests share only the read-only token secret.
type Service struct {
	users  store.UserStore
	hasher PasswordHasher
	tokens *TokenCodec
}

func NewService(users store.UserStore, hasher PasswordHasher, tokens *TokenCodec) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Register creates an account and returns a signed token bound to it.
// The store enforces account uniqueness, so two concurrent
// registrations of the same name leave exactly one winner. The only
// persistent write happens on the success path.
func (s *Service) Register(ctx context.Context, account, password string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" || strings.TrimSpace(password) == "" {
		return "", ErrInvalidInput
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}
	user, err := s.users.CreateUser(ctx, account, digest)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateAccount) {
			return "", ErrAccountTaken
		}
		return "", err
	}
	return s.tokens.Issue(user.Account)
}

// Login verifies the password against the stored digest and issues a
// token bound to the stored account name.
func (s *Service) Login(ctx context.Context, account, password string) (string, error) {
	if account == "" || password == "" {
		return "", ErrInvalidInput
	}
	user, err := s.users.FindUserByAccount(ctx, account)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnknownAccount
		}
		return "", err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrBadCredentials
	}
	return s.tokens.Issue(user.Account)
}

// Authenticate turns a raw Authorization header into a Principal. The
// embedded account is resolved against the store on every call, so a
// token for a deleted account fails with ErrUnknownAccount instead of
// carrying a dangling identity.
func (s *Service) Authenticate(ctx context.Context, authorization string) (model.Principal, error) {
	if !strings.HasPrefix(authorization, bearerScheme) {
		return model.Principal{}, ErrMissingCredential
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authorization, bearerScheme))
	if raw == "" {
		return model.Principal{}, ErrMissingCredential
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return model.Principal{}, err
	}
	user, err := s.users.FindUserByAccount(ctx, claims.Account)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Principal{}, ErrUnknownAccount
		}
		return model.Principal{}, err
	}
	return model.Principal{Account: user.Account, UserID: user.ID}, nil
}
