package refresh

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewStore(client, "art")
}

func mustGenerate(t *testing.T) string {
	t.Helper()

	token, err := Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return token
}

func TestGenerateProducesUniqueTokens(t *testing.T) {
	a := mustGenerate(t)
	b := mustGenerate(t)
	if a == b {
		t.Fatal("expected distinct tokens")
	}
}

func TestSaveAndRotate(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	token := mustGenerate(t)
	if err := store.Save(ctx, token, "u1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	userID, err := store.Rotate(ctx, token)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected u1, got %q", userID)
	}
}

func TestRotateIsSingleUse(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	token := mustGenerate(t)
	if err := store.Save(ctx, token, "u1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := store.Rotate(ctx, token); err != nil {
		t.Fatalf("first Rotate failed: %v", err)
	}

	userID, err := store.Rotate(ctx, token)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked on second use, got %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected owner ID with revoked error, got %q", userID)
	}
}

func TestRotateUnknownToken(t *testing.T) {
	_, store := newTestStore(t)

	token := mustGenerate(t)
	_, err := store.Rotate(context.Background(), token)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestRotateMalformedToken(t *testing.T) {
	_, store := newTestStore(t)

	_, err := store.Rotate(context.Background(), "%%%not-base64%%%")
	if !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestRotateWrongSecret(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	token := mustGenerate(t)
	if err := store.Save(ctx, token, "u1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Forge a token with the same record ID but a different secret.
	rawToken, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	rawOther, err := base64.RawURLEncoding.DecodeString(mustGenerate(t))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	forgedRaw := append(append([]byte(nil), rawToken[:recordIDSize]...), rawOther[recordIDSize:]...)
	forged := base64.RawURLEncoding.EncodeToString(forgedRaw)

	if _, err := store.Rotate(ctx, forged); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected forged token to look unknown, got %v", err)
	}
}

func TestRotateExpiredToken(t *testing.T) {
	mr, store := newTestStore(t)
	ctx := context.Background()

	token := mustGenerate(t)
	if err := store.Save(ctx, token, "u1", time.Second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	_, err := store.Rotate(ctx, token)
	if !errors.Is(err, ErrTokenNotFound) && !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	token := mustGenerate(t)
	if err := store.Save(ctx, token, "u1", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}
	if err := store.Revoke(ctx, "garbage"); err != nil {
		t.Fatalf("garbage Revoke failed: %v", err)
	}

	if _, err := store.Rotate(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after revoke, got %v", err)
	}
}

func TestRevokeAllForUser(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()

	tokens := make([]string, 3)
	for i := range tokens {
		tokens[i] = mustGenerate(t)
		if err := store.Save(ctx, tokens[i], "u1", time.Hour); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	otherToken := mustGenerate(t)
	if err := store.Save(ctx, otherToken, "u2", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.RevokeAllForUser(ctx, "u1"); err != nil {
		t.Fatalf("RevokeAllForUser failed: %v", err)
	}

	for i, token := range tokens {
		if _, err := store.Rotate(ctx, token); !errors.Is(err, ErrTokenRevoked) {
			t.Fatalf("token %d: expected ErrTokenRevoked, got %v", i, err)
		}
	}
	if _, err := store.Rotate(ctx, otherToken); err != nil {
		t.Fatalf("expected other user's token to survive, got %v", err)
	}
}

func TestSaveRejectsUserIDWithSeparator(t *testing.T) {
	_, store := newTestStore(t)

	token := mustGenerate(t)
	if err := store.Save(context.Background(), token, "u|1", time.Hour); err == nil {
		t.Fatal("expected separator in user ID to be rejected")
	}
}
