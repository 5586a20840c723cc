package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/castlelock/authcore"
)

// Rejection codes returned in the JSON body of a 401 response.
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "INVALID_TOKEN"
	CodeTokenFailed  = "TOKEN_VERIFICATION_FAILED"
)

type userContextKey struct{}

// UserFromContext returns the user injected by [Guard].
func UserFromContext(ctx context.Context) (*authcore.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*authcore.User)
	return user, ok
}

// Guard rejects requests without a valid access token. On success the
// validated user is stored in the request context.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				reject(w, "authorization unavailable", CodeTokenFailed)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				reject(w, "authorization header missing or malformed", CodeTokenInvalid)
				return
			}

			user, err := engine.Validate(r.Context(), token)
			if err != nil {
				message, code := rejectionFor(err)
				reject(w, message, code)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectionFor(err error) (message, code string) {
	switch {
	case errors.Is(err, authcore.ErrTokenExpired):
		return "token has expired", CodeTokenExpired
	case errors.Is(err, authcore.ErrTokenInvalid):
		return "invalid token", CodeTokenInvalid
	default:
		return "token verification failed", CodeTokenFailed
	}
}

func reject(w http.ResponseWriter, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
		"code":    code,
	})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
