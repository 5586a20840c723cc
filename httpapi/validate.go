package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
	maxBodyBytes      = 1 << 20
)

// decodeBody parses a strict JSON body into dst. Unknown fields and
// trailing garbage are rejected.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("invalid request body: unexpected trailing data")
	}
	return nil
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) < minNameLength {
		return fmt.Errorf("name must be at least %d characters", minNameLength)
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func validateConfirm(password, confirm string) error {
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}
