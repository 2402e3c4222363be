// Package logging builds the zap logger used across rolejoin and adapts it
// to GORM's logger interface, so SQL statements from the sqlite and postgres
// backends land in the same structured log.
package logging
