// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vibealong/onboarding/auth"
	"github.com/vibealong/onboarding/db"
)

// insertable lists the tables InsertRecord may write and their columns.
var insertable = map[string]map[string]bool{
	db.TableProfiles: columns("id", "email", "full_name", "role", "avatar_url", "marketing_opt_in", "created_at"),
	db.TableDeveloperProfiles: columns("user_id", "experience_level", "skills", "tools", "availability",
		"hourly_rate", "created_at"),
	db.TableVibeCoderProfiles: columns("user_id", "tagline", "frequent_task_types", "tools",
		"estimated_monthly_budget", "created_at"),
	db.TableAgencyProfiles: columns("user_id", "agency_name", "contact_email", "website", "developer_count",
		"created_at"),
}

func columns(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// SQLStore implements Accounts, IdentityChecker, Authenticator and Records
// on top of database/sql. It works with both the postgres and sqlite drivers.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ Accounts        = (*SQLStore)(nil)
	_ IdentityChecker = (*SQLStore)(nil)
	_ Authenticator   = (*SQLStore)(nil)
	_ Records         = (*SQLStore)(nil)
	_ Files           = (*DiskStore)(nil)
)

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// NormalizeEmail trims and lowercases an address for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount hashes the password and stores a new account.
func (s *SQLStore) CreateAccount(ctx context.Context, email string, password auth.Secret, attrs AccountAttributes) (Account, error) {
	if len(password.Reveal()) < MinPasswordLength {
		return Account{}, ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return Account{}, ErrWeakPassword
	}
	if err != nil {
		return Account{}, err
	}

	acct := Account{
		ID:        uuid.NewString(),
		Email:     NormalizeEmail(email),
		FullName:  strings.TrimSpace(attrs.FullName),
		Role:      attrs.Role,
		CreatedAt: s.now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, full_name, role, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, acct.ID, acct.Email, hash, acct.FullName, nullable(acct.Role), nullable(attrs.AvatarURL), acct.CreatedAt)
	if err != nil {
		// The only constraint an account insert can trip is the email.
		if errors.Is(classify(err), ErrConstraintViolation) {
			return Account{}, ErrDuplicateEmail
		}
		slog.Error("failed to insert account", "error", err)
		return Account{}, fmt.Errorf("%w: insert account: %v", ErrNetwork, err)
	}

	slog.Info("account created", "account_id", acct.ID)
	return acct, nil
}

// AccountExists reports whether the email is already registered.
func (s *SQLStore) AccountExists(ctx context.Context, email string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE email = $1", NormalizeEmail(email)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: lookup account: %v", ErrNetwork, err)
	}
	return true, nil
}

// Authenticate checks credentials and reports how far onboarding got for
// the account. ProfileRole is set once the base profile is stored;
// ProfileComplete only once the matching role profile exists as well.
func (s *SQLStore) Authenticate(ctx context.Context, email string, password auth.Secret) (Account, error) {
	var (
		acct        Account
		hash        string
		role        sql.NullString
		profileRole sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email, a.full_name, a.role, a.password_hash, a.created_at, p.role,
		       CASE p.role
		           WHEN 'developer' THEN EXISTS (SELECT 1 FROM developer_profiles d WHERE d.user_id = a.id)
		           WHEN 'vibe-coder' THEN EXISTS (SELECT 1 FROM vibe_coder_profiles v WHERE v.user_id = a.id)
		           WHEN 'agency' THEN EXISTS (SELECT 1 FROM agency_profiles g WHERE g.user_id = a.id)
		           ELSE FALSE
		       END
		FROM accounts a
		LEFT JOIN profiles p ON p.id = a.id
		WHERE a.email = $1
	`, NormalizeEmail(email)).Scan(&acct.ID, &acct.Email, &acct.FullName, &role, &hash, &acct.CreatedAt, &profileRole, &acct.ProfileComplete)
	if err == sql.ErrNoRows {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, fmt.Errorf("%w: lookup account: %v", ErrNetwork, err)
	}
	acct.Role = role.String
	acct.ProfileRole = profileRole.String

	if err := auth.CheckPassword(hash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}

	return acct, nil
}

// InsertRecord writes one row. Table and column names are checked against
// an allowlist; string slices are stored as JSON text.
func (s *SQLStore) InsertRecord(ctx context.Context, table string, fields map[string]any) error {
	allowed, ok := insertable[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields for %s", ErrConstraintViolation, table)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if !allowed[name] {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		v, err := columnValue(fields[name])
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", table, name, err)
		}
		args[i] = v
	}

	query := "INSERT INTO " + table + " (" + strings.Join(names, ", ") + ") VALUES (" +
		strings.Join(placeholders, ", ") + ")"

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		err = classify(err)
		slog.Error("failed to insert record", "table", table, "error", err)
		return err
	}

	slog.Info("record inserted", "table", table)
	return nil
}

func columnValue(v any) (any, error) {
	switch val := v.(type) {
	case []string:
		if val == nil {
			val = []string{}
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case time.Time:
		return val.UTC(), nil
	default:
		return v, nil
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// classify maps driver errors onto the backend error taxonomy.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Class() == "23" { // integrity_constraint_violation
			return fmt.Errorf("%w: %s", ErrConstraintViolation, pqErr.Message)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
