package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/test"
	"github.com/altmarket/storefront/internal/usecase"
)

func newAuthUseCaseForTest() (*usecase.AuthUseCase, *test.UserRepositoryStub) {
	users := test.NewUserRepositoryStub()
	uc := usecase.NewAuthUseCase(users, test.HasherStub{}, test.StrategyStub{
		IssueFn: func(id string) (string, error) { return "token:" + id, nil },
	})
	return uc, users
}

func TestRegister_Success(t *testing.T) {
	uc, users := newAuthUseCaseForTest()

	user, token, err := uc.Register(context.Background(), "Shopper@Example.COM", "Shopper", "supersecret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "shopper@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if token != "token:"+user.ID {
		t.Fatalf("unexpected token: %q", token)
	}
	if _, ok := users.ByEmail["shopper@example.com"]; !ok {
		t.Fatal("expected user to be stored")
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	uc, _ := newAuthUseCaseForTest()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"malformed email", "not-an-email", "supersecret"},
		{"empty email", "", "supersecret"},
		{"short password", "shopper@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := uc.Register(context.Background(), tc.email, "name", tc.password); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _ := newAuthUseCaseForTest()

	if _, _, err := uc.Register(context.Background(), "shopper@example.com", "one", "supersecret"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "shopper@example.com", "two", "supersecret"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	uc, _ := newAuthUseCaseForTest()
	if _, _, err := uc.Register(context.Background(), "shopper@example.com", "name", "supersecret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := uc.Authenticate(context.Background(), "SHOPPER@example.com", "supersecret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if token == "" || user.Email != "shopper@example.com" {
		t.Fatal("expected token and user for valid credentials")
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	uc, _ := newAuthUseCaseForTest()
	if _, _, err := uc.Register(context.Background(), "shopper@example.com", "name", "supersecret"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := uc.Authenticate(context.Background(), "shopper@example.com", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	uc, _ := newAuthUseCaseForTest()
	if _, _, err := uc.Authenticate(context.Background(), "ghost@example.com", "supersecret"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	uc, users := newAuthUseCaseForTest()
	user, _, err := uc.Register(context.Background(), "shopper@example.com", "name", "supersecret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := uc.ChangePassword(context.Background(), user.ID, "wrong", "anothersecret"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}
	if err := uc.ChangePassword(context.Background(), user.ID, "supersecret", "short"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for short new password, got %v", err)
	}
	if err := uc.ChangePassword(context.Background(), user.ID, "supersecret", "anothersecret"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if users.ByID[user.ID].PasswordHash != "hash:anothersecret" {
		t.Fatal("expected stored hash to be rotated")
	}
}

func TestUpdateProfile_TrimsName(t *testing.T) {
	uc, _ := newAuthUseCaseForTest()
	user, _, err := uc.Register(context.Background(), "shopper@example.com", "name", "supersecret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := uc.UpdateProfile(context.Background(), user.ID, "  New Name  ")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("unexpected name: %q", updated.Name)
	}
}

func TestDeleteAccount(t *testing.T) {
	uc, users := newAuthUseCaseForTest()

	user, _, err := uc.Register(context.Background(), "shopper@example.com", "Shopper", "supersecret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := uc.DeleteAccount(context.Background(), user.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, ok := users.ByID[user.ID]; ok {
		t.Fatal("expected user to be removed")
	}

	if err := uc.DeleteAccount(context.Background(), user.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated deletion, got %v", err)
	}
}
