package service

import (
	"errors"
	"testing"

	"chirper/internal/config"
	"chirper/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		SessionMaxAge: config.DefaultSessionMaxAge,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testConfig())

	token, err := svc.Generate(42)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.SessionMaxAge = -60 // already expired at issue time
	svc := NewTokenService(cfg)

	token, err := svc.Generate(1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := svc.Verify(token); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidCredentials)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := NewTokenService(testConfig())

	token, err := issuer.Generate(1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	verifier := NewTokenService(&config.Config{
		JWTSecret:     "different-secret",
		SessionMaxAge: config.DefaultSessionMaxAge,
	})

	if _, err := verifier.Verify(token); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidCredentials)
	}
}

func TestTokenService_Verify_Garbage(t *testing.T) {
	svc := NewTokenService(testConfig())

	if _, err := svc.Verify("not.a.token"); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("error = %v, want %v", err, model.ErrInvalidCredentials)
	}
}
