// Package database provides connection management, configuration loading,
// health checks, query hooks, model registration, SQL error classification
// and logging built on top of Bun.
package database
