// Package history persists a record of completed subtitle generations in a
// local SQLite database.
//
// The store is an optional convenience: the generation pipeline runs without
// it when history is disabled in configuration. Entries are append-only and
// exist for the `subgen history` listing, not for any pipeline decision.
package history
