package users

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"docqa-backend/internal/shared/auth"
)

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	user, err := svc.Register(context.Background(), "  Alice@Example.COM ", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatalf("password was not hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterRejectsEmptyInput(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Register(context.Background(), "", "pw"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "a@b.com", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty password, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Register(context.Background(), "alice@example.com", "pw"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "ALICE@example.com", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(NewMemoryRepo())

	registered, err := svc.Register(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := svc.Login(context.Background(), "Alice@Example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %q, got %q", registered.ID, user.ID)
	}

	claims, err := auth.VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != registered.ID || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Register(context.Background(), "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for unknown email, got %v", err)
	}
}
