// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open("postgres", "postgres://...")   // github.com/lib/pq
	conn, err := db.Open("sqlite", "file:vibealong.db")   // modernc.org/sqlite

SQLite connections are limited to one open connection and have foreign keys
enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL only uses types and defaults both PostgreSQL and SQLite accept, and
every query in the service uses $N placeholders, which both drivers bind.

# Tables

  - accounts: credentials (bcrypt hash) and signup attributes
  - profiles: base profile, one per account
  - developer_profiles: developer-specific fields
  - vibe_coder_profiles: vibe-coder-specific fields
  - agency_profiles: agency-specific fields

# Relationships

	accounts 1──1 profiles
	profiles 1──0..1 developer_profiles
	profiles 1──0..1 vibe_coder_profiles
	profiles 1──0..1 agency_profiles

All foreign keys use ON DELETE CASCADE. List-valued fields (skills, tools,
frequent task types) are stored as JSON text.
*/
package db
