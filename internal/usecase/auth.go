package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
	pkgAuth "github.com/altmarket/storefront/internal/pkg/auth"
)

const minPasswordLength = 8

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new user and returns an auth token.
func (u *AuthUseCase) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !ValidateEmail(email) || len(password) < minPasswordLength {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns an auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the user id from the provided token.
func (u *AuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches a user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// UpdateProfile changes the user's display name.
func (u *AuthUseCase) UpdateProfile(ctx context.Context, id, name string) (*model.User, error) {
	return u.users.UpdateProfile(ctx, id, strings.TrimSpace(name))
}

// ChangePassword verifies the current password before storing a new hash.
func (u *AuthUseCase) ChangePassword(ctx context.Context, id, current, next string) error {
	if len(next) < minPasswordLength {
		return domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.hasher.Compare(usr.PasswordHash, current); err != nil {
		return domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(next)
	if err != nil {
		return err
	}
	return u.users.UpdatePassword(ctx, id, hash)
}

// DeleteAccount removes the user's account. Accounts referenced by orders
// or payments are kept for bookkeeping and the request is refused.
func (u *AuthUseCase) DeleteAccount(ctx context.Context, id string) error {
	return u.users.Delete(ctx, id)
}
