package authcore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPasswordResetFlow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := testConfig()
	cfg.Security.EchoResetToken = true

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, cfg)
	signUpTestUser(t, engine, store, "alice@example.com")

	request, err := engine.RequestPasswordReset(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if request.Token == "" {
		t.Fatal("expected echoed reset token")
	}
	if !strings.HasSuffix(request.URL, request.Token) {
		t.Fatalf("expected URL to end with the token, got %q", request.URL)
	}

	if err := engine.ResetPassword(context.Background(), request.Token, "brand-new-password"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := engine.SignIn(context.Background(), "alice@example.com", testPassword); err == nil {
		t.Fatal("expected old password to be rejected")
	}
	if _, err := engine.SignIn(context.Background(), "alice@example.com", "brand-new-password"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestPasswordResetTokenNotEchoedByDefault(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, testConfig())
	signUpTestUser(t, engine, store, "alice@example.com")

	request, err := engine.RequestPasswordReset(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if request.Token != "" {
		t.Fatal("expected reset token to be withheld by default")
	}
	if request.URL == "" {
		t.Fatal("expected reset URL")
	}
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, testConfig())

	_, err := engine.RequestPasswordReset(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPasswordResetMailFailure(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	mailer := &recorderMailer{}

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithUserStore(store).
		WithMailer(mailer).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	signUpTestUser(t, engine, store, "alice@example.com")
	mailer.err = errors.New("smtp down")

	_, err = engine.RequestPasswordReset(context.Background(), "alice@example.com")
	if !errors.Is(err, ErrMailUnavailable) {
		t.Fatalf("expected ErrMailUnavailable, got %v", err)
	}
}

func TestPasswordResetRejectsExpiredToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := testConfig()
	cfg.Security.EchoResetToken = true
	cfg.PasswordReset.TokenTTL = time.Millisecond
	cfg.Token.Leeway = 0

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, cfg)
	signUpTestUser(t, engine, store, "alice@example.com")

	request, err := engine.RequestPasswordReset(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	err = engine.ResetPassword(context.Background(), request.Token, "brand-new-password")
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestPasswordResetRejectsAccessToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, testConfig())
	signedIn := signInTestUser(t, engine, store, "alice@example.com")

	err := engine.ResetPassword(context.Background(), signedIn.AccessToken, "brand-new-password")
	if !errors.Is(err, ErrTokenWrongPurpose) {
		t.Fatalf("expected ErrTokenWrongPurpose, got %v", err)
	}
}

func TestPasswordResetRejectsVerificationToken(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, testConfig())

	result, err := engine.SignUp(context.Background(), "Alice", "alice@example.com", testPassword)
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	err = engine.ResetPassword(context.Background(), result.VerificationToken, "brand-new-password")
	if !errors.Is(err, ErrTokenWrongPurpose) {
		t.Fatalf("expected ErrTokenWrongPurpose, got %v", err)
	}
}

func TestPasswordResetClearsLockout(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := testConfig()
	cfg.Security.EchoResetToken = true
	cfg.Lockout.MaxAttempts = 2

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, cfg)
	user := signUpTestUser(t, engine, store, "alice@example.com")

	for i := 0; i < 2; i++ {
		engine.SignIn(context.Background(), "alice@example.com", "wrong-password")
	}
	if !store.get(user.ID).Locked {
		t.Fatal("expected account to be locked before reset")
	}

	request, err := engine.RequestPasswordReset(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if err := engine.ResetPassword(context.Background(), request.Token, "brand-new-password"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := engine.SignIn(context.Background(), "alice@example.com", "brand-new-password"); err != nil {
		t.Fatalf("expected reset to clear the lockout, got %v", err)
	}
}

func TestPasswordResetRevokesRefreshTokens(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := testConfig()
	cfg.Security.EchoResetToken = true

	store := newMemUserStore()
	engine := newTestEngine(t, rdb, store, cfg)
	signedIn := signInTestUser(t, engine, store, "alice@example.com")

	request, err := engine.RequestPasswordReset(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if err := engine.ResetPassword(context.Background(), request.Token, "brand-new-password"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := engine.Refresh(context.Background(), signedIn.RefreshToken); err == nil {
		t.Fatal("expected pre-reset refresh token to be revoked")
	}
}
