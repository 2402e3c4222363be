// Command rolejoinctl lists every role with one user's assignments.
//
// The roles, users and user_roles tables can live in process memory, in
// SQLite or in PostgreSQL. Whatever the backend, the answer comes from the
// same in-memory group join.
//
// # Quick Start
//
//	# Create the schema
//	rolejoinctl --backend sqlite --database-url file:roles.db db migrate
//
//	# Load users, roles and assignments
//	rolejoinctl --backend sqlite --database-url file:roles.db seed fixture.yml --reset
//
//	# Roles of user 1
//	rolejoinctl --backend sqlite --database-url file:roles.db roles 1
//
//	# Serve the same over HTTP, reloading fixture.yml on change
//	rolejoinctl server --watch fixture.yml
//
// # Environment Variables
//
//   - ROLEJOIN_BACKEND: memory, sqlite or postgres
//   - DATABASE_URL: database connection string
//   - ROLEJOIN_LOG_LEVEL: debug, info, warn or error
//   - ROLEJOIN_SEED_FILE: fixture loaded by seed and server
//   - ROLEJOIN_CONFIG_PATH: directory holding rolejoin.yml
//   - BIND_ADDRESS, PORT: server listen address
package main
