// Package config provides configuration management for rolejoin.
//
// This package handles loading and validating rolejoin configuration
// from environment variables and configuration files.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - Configuration file ($ROLEJOIN_CONFIG_PATH/rolejoin.yml)
//   - Environment variables
//
// # Key Configuration Options
//
//   - ROLEJOIN_BACKEND: memory, sqlite or postgres
//   - DATABASE_URL: Database connection (or in-memory database name)
//   - ROLEJOIN_LOG_LEVEL: Logging verbosity
//   - ROLEJOIN_SEED_FILE: Fixture loaded on seed and server start
//   - BIND_ADDRESS, PORT: HTTP server listen address
package config
