package advances

import (
	"context"
	"database/sql"
	"io/fs"
	"sort"
	"strings"
	"time"

	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

const migrationTable = "schema_migrations"

// applyMigrations runs each embedded .sql file at most once, in name order
func applyMigrations(ctx context.Context, db *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return dnderr.Wrap(err, "read migrations dir")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`)
	if err != nil {
		return dnderr.Wrap(err, "ensure migration table")
	}

	for _, file := range files {
		var applied int
		err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+migrationTable+` WHERE name = ?`, file).Scan(&applied)
		if err != nil {
			return dnderr.Wrapf(err, "check migration %s", file)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return dnderr.Wrapf(err, "read migration %s", file)
		}
		up := upSection(string(content))
		if strings.TrimSpace(up) == "" {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return dnderr.Wrapf(err, "begin migration %s", file)
		}
		if _, err := tx.ExecContext(ctx, up); err != nil {
			_ = tx.Rollback()
			return dnderr.WrapWithCode(err, dnderr.CodeInternal, "exec migration "+file)
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file, time.Now().UTC().UnixMilli())
		if err != nil {
			_ = tx.Rollback()
			return dnderr.Wrapf(err, "record migration %s", file)
		}
		if err := tx.Commit(); err != nil {
			return dnderr.Wrapf(err, "commit migration %s", file)
		}
	}
	return nil
}

// upSection returns the SQL between the Up and Down markers
func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	start := strings.Index(content, up)
	if start == -1 {
		return content
	}
	content = content[start+len(up):]
	if end := strings.Index(content, down); end != -1 {
		content = content[:end]
	}
	return content
}
