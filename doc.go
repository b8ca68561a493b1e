// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the VibeAlong onboarding API server.

The server walks new users through a multi-step signup wizard (account
details, role selection, optional profile picture, role-specific profile)
and persists the account and profiles once the last step is submitted.

# Starting the Server

Configuration comes from CLI flags, environment variables, or an optional
.env file in the working directory:

	DATABASE_URL=./vibealong.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - UPLOAD_DIR (--upload-dir): Where profile pictures are stored (default: ./uploads)
  - PUBLIC_BASE_URL (--public-url): Prefix for picture links
  - SIGNUP_FLAVOR (--flavor): Default wizard flavor (default: simple)
  - FLAVORS_FILE (--flavors): YAML file replacing the built-in flavors
  - SESSION_TTL (--session-ttl): Idle lifetime of a wizard (default: 30m)

# Architecture

  - wizard: Flavors, the step controller, role profiles, session store
  - backend: Account service, record store, picture storage
  - handlers: HTTP request handlers for the signup endpoints
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Passwords, secrets, session tokens
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
