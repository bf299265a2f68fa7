// Package sqlite provides SQLite-backed run history storage.
//
// The store owns a single database file with embedded schema
// migrations that run on open. It exposes the driven.RunStore port
// through a wrapper type so core services never see database/sql.
package sqlite
