package authcore

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestVerifyEmailSuccess(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, testConfig())

	signedUp, err := engine.SignUp(context.Background(), "Alice", "alice@example.com", testPassword)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	result, err := engine.VerifyEmail(context.Background(), signedUp.VerificationToken)
	if err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if !result.User.Verified {
		t.Fatal("expected user to be verified")
	}
	if result.AlreadyVerified {
		t.Fatal("expected first verification to report AlreadyVerified=false")
	}
	if !store.get(signedUp.User.ID).Verified {
		t.Fatal("expected stored user to be verified")
	}
}

func TestVerifyEmailIsIdempotent(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, testConfig())

	signedUp, err := engine.SignUp(context.Background(), "Alice", "alice@example.com", testPassword)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if _, err := engine.VerifyEmail(context.Background(), signedUp.VerificationToken); err != nil {
		t.Fatalf("first VerifyEmail failed: %v", err)
	}

	result, err := engine.VerifyEmail(context.Background(), signedUp.VerificationToken)
	if err != nil {
		t.Fatalf("second VerifyEmail failed: %v", err)
	}
	if !result.AlreadyVerified {
		t.Fatal("expected AlreadyVerified on repeat verification")
	}
}

func TestVerifyEmailRejectsGarbage(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, testConfig())

	_, err := engine.VerifyEmail(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyEmailRejectsAccessToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, testConfig())
	signedIn := signInTestUser(t, engine, store, "alice@example.com")

	_, err := engine.VerifyEmail(context.Background(), signedIn.AccessToken)
	if !errors.Is(err, ErrTokenWrongPurpose) {
		t.Fatalf("expected ErrTokenWrongPurpose, got %v", err)
	}
}

func TestVerifyEmailRejectsExpiredToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := testConfig()
	cfg.EmailVerification.TokenTTL = time.Millisecond
	cfg.Token.Leeway = 0

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, cfg)

	signedUp, err := engine.SignUp(context.Background(), "Alice", "alice@example.com", testPassword)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	_, err = engine.VerifyEmail(context.Background(), signedUp.VerificationToken)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
