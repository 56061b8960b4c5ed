package database

import _ "embed"

// Schema is the full host schema at the latest migration, for tests that
// want a ready database without running the migrator.
//
//go:embed schema.sql
var Schema string
