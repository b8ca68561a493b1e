// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Table names shared by the schema and the record store.
const (
	TableAccounts          = "accounts"
	TableProfiles          = "profiles"
	TableDeveloperProfiles = "developer_profiles"
	TableVibeCoderProfiles = "vibe_coder_profiles"
	TableAgencyProfiles    = "agency_profiles"
)

// driverNames maps DATABASE_TYPE values to registered database/sql drivers.
var driverNames = map[string]string{
	"postgres": "postgres",
	"sqlite":   "sqlite",
}

// Open connects to the configured database and verifies the connection.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	driver, ok := driverNames[databaseType]
	if !ok {
		return nil, fmt.Errorf("unsupported database type %q", databaseType)
	}

	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", databaseType, err)
	}

	if driver == "sqlite" {
		// SQLite allows one writer; a single connection also keeps
		// :memory: databases from splitting across connections.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", databaseType, err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types and defaults that PostgreSQL and SQLite both accept.
const schema = `
-- Accounts (credentials)
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL,
    role TEXT,
    avatar_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Base profiles, one per account
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    full_name TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('developer', 'vibe-coder', 'agency')),
    avatar_url TEXT,
    marketing_opt_in BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role);

-- Developer profiles
CREATE TABLE IF NOT EXISTS developer_profiles (
    user_id TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
    experience_level TEXT NOT NULL CHECK (experience_level IN ('junior', 'mid', 'senior', 'lead')),
    skills TEXT NOT NULL,
    tools TEXT NOT NULL,
    availability TEXT NOT NULL,
    hourly_rate REAL NOT NULL CHECK (hourly_rate > 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Vibe coder profiles
CREATE TABLE IF NOT EXISTS vibe_coder_profiles (
    user_id TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
    tagline TEXT NOT NULL,
    frequent_task_types TEXT NOT NULL,
    tools TEXT NOT NULL,
    estimated_monthly_budget REAL NOT NULL CHECK (estimated_monthly_budget >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Agency profiles
CREATE TABLE IF NOT EXISTS agency_profiles (
    user_id TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
    agency_name TEXT NOT NULL,
    contact_email TEXT NOT NULL,
    website TEXT,
    developer_count INTEGER NOT NULL CHECK (developer_count > 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
