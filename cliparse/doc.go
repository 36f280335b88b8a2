// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file/DSN or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - IdentitySalt: Secret for identity token HMAC (required)
  - EnvFile: Optional dotenv file

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	-identity-salt Identity token salt
	-env           Dotenv file to load

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	IDENTITY_SALT → -identity-salt

CLI flags take precedence over environment variables. When -env is given
the file is loaded with godotenv first; variables already present in the
environment are not overwritten by the file.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - IDENTITY_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
