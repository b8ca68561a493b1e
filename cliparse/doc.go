// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnv pulls an optional .env file into the environment, then ParseFlags
returns a Config struct with all settings:

	_ = cliparse.LoadEnv(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - UploadDir: Where profile pictures are written (default: ./uploads)
  - PublicBaseURL: Prefix for public upload links (default: http://localhost:<port>)
  - Flavor: Signup flavor used when a client does not name one (default: simple)
  - FlavorsFile: Optional YAML file replacing the built-in flavors
  - SessionTTL: Idle lifetime of a signup session (default: 30m)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--upload-dir  Upload directory
	--public-url  Public base URL
	--flavor      Default signup flavor
	--flavors     Flavor definitions file
	--session-ttl Session idle lifetime

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	UPLOAD_DIR      → --upload-dir
	PUBLIC_BASE_URL → --public-url
	SIGNUP_FLAVOR   → --flavor
	FLAVORS_FILE    → --flavors
	SESSION_TTL     → --session-ttl

CLI flags take precedence over environment variables, and variables already
present in the environment take precedence over the .env file.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is not sqlite or postgres
  - PORT or SESSION_TTL cannot be parsed
*/
package cliparse
