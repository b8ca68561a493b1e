// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package backend implements the authentication and persistence collaborator
the signup wizard talks to.

# Capabilities

The wizard only depends on small interfaces:

  - Accounts: CreateAccount(email, password, attributes) → Account
  - IdentityChecker: AccountExists(email)
  - Authenticator: Authenticate(email, password) → Account
  - Records: InsertRecord(table, fields)
  - Files: UploadFile(bytes, path) → public URL

SQLStore provides the first four on top of database/sql (PostgreSQL via
lib/pq or SQLite via modernc.org/sqlite). DiskStore provides Files.

# Errors

Every failure maps onto a sentinel error so callers can use errors.Is:

	ErrDuplicateEmail      email already registered
	ErrWeakPassword        shorter than 8 characters or over bcrypt's 72 bytes
	ErrInvalidCredentials  Authenticate found no matching account/password
	ErrConstraintViolation unique, check, not-null or foreign key violation
	ErrUnknownTable        InsertRecord table not on the allowlist
	ErrUnknownColumn       InsertRecord column not on the allowlist
	ErrTooLarge            upload above the configured limit
	ErrInvalidPath         upload path escapes the store root
	ErrNetwork             anything else (database down, disk error, ...)

Driver errors are classified from *pq.Error (SQLSTATE class 23) and
*sqlite.Error (primary code SQLITE_CONSTRAINT).

# Record Encoding

InsertRecord sorts the field names, binds values with $N placeholders, and
stores []string values as JSON text so list fields look the same in both
databases.
*/
package backend
