package migrations

import "embed"

// FS contains the embedded SQLite migrations for the advance history.
//
//go:embed *.sql
var FS embed.FS
