// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordMismatch = errors.New("password does not match")
	ErrPasswordTooLong  = errors.New("password exceeds 72 bytes")
)

// Secret wraps credential material so it never shows up in logs or JSON.
// Use Reveal when the raw value is really needed.
type Secret string

// String redacts the secret when formatted with fmt.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString redacts the secret during %#v formatting.
func (s Secret) GoString() string {
	return s.String()
}

// LogValue keeps slog from printing the raw value.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Reveal returns the raw secret value.
func (s Secret) Reveal() string {
	return string(s)
}

// Empty reports whether no secret was supplied.
func (s Secret) Empty() bool {
	return s == ""
}

// MarshalJSON redacts the secret when emitting JSON.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"***redacted***"`), nil
}

// UnmarshalJSON reads a plain JSON string. Empty values are allowed here;
// form validation decides whether they are acceptable.
func (s *Secret) UnmarshalJSON(data []byte) error {
	var plaintext string
	if err := json.Unmarshal(data, &plaintext); err != nil {
		return err
	}
	*s = Secret(plaintext)
	return nil
}

// GenerateSessionToken creates the opaque token that addresses a running
// signup wizard. 24 bytes = 192 bits of entropy.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// HashPassword returns the bcrypt hash stored for an account.
func HashPassword(password Secret) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password.Reveal()), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a candidate password against a stored hash.
func CheckPassword(hash string, password Secret) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password.Reveal()))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
