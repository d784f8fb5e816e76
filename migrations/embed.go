// Package migrations carries the numbered SQLite schema files. Files are
// applied in numeric order and recorded in schema_migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
