// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package backend

import (
	"context"
	"errors"
	"time"

	"github.com/vibealong/onboarding/auth"
)

var (
	ErrDuplicateEmail      = errors.New("an account with this email already exists")
	ErrWeakPassword        = errors.New("password too weak")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrConstraintViolation = errors.New("record violates a constraint")
	ErrUnknownTable        = errors.New("unknown table")
	ErrUnknownColumn       = errors.New("unknown column")
	ErrTooLarge            = errors.New("file too large")
	ErrInvalidPath         = errors.New("invalid object path")
	ErrNetwork             = errors.New("backend unavailable")
)

// MinPasswordLength is enforced again at account creation, whatever the
// caller validated.
const MinPasswordLength = 8

// AccountAttributes are stored alongside the credentials.
type AccountAttributes struct {
	FullName  string
	Role      string
	AvatarURL string
}

type Account struct {
	ID              string
	Email           string
	FullName        string
	Role            string
	CreatedAt       time.Time
	ProfileRole     string
	ProfileComplete bool
}

// Accounts creates login identities.
type Accounts interface {
	CreateAccount(ctx context.Context, email string, password auth.Secret, attrs AccountAttributes) (Account, error)
}

// IdentityChecker answers "does this email already have an account".
type IdentityChecker interface {
	AccountExists(ctx context.Context, email string) (bool, error)
}

// Authenticator verifies credentials of an existing account.
type Authenticator interface {
	Authenticate(ctx context.Context, email string, password auth.Secret) (Account, error)
}

// Records is a generic record store.
type Records interface {
	InsertRecord(ctx context.Context, table string, fields map[string]any) error
}

// Files is an object store that hands back public URLs.
type Files interface {
	UploadFile(ctx context.Context, data []byte, path string) (string, error)
}
