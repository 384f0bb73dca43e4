package advances

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/repositories/advances/migrations"
)

const advanceColumns = `id, character_id, advance_number, advance_type, edge_id, attribute_id,
	skill_id_1, skill_id_2, hindrance_id, hindrance_action, notes, created_at, updated_at`

// SQLiteConfig holds configuration for the SQLite history store
type SQLiteConfig struct {
	Path string
}

// SQLiteRepository stores advance history in the character_advances table
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at cfg.Path and applies the embedded migrations
func NewSQLiteRepository(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil || strings.TrimSpace(cfg.Path) == "" {
		return nil, dnderr.InvalidArgument("sqlite path is required")
	}

	dsn := "file:" + filepath.Clean(cfg.Path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, dnderr.Wrap(err, "open sqlite db").WithMeta("path", cfg.Path)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dnderr.Wrap(err, "ping sqlite db").WithMeta("path", cfg.Path)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, dnderr.Wrap(err, "run migrations").WithMeta("path", cfg.Path)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the SQLite handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Append stores the next advance for a character
func (r *SQLiteRepository) Append(ctx context.Context, record *character.AdvanceRecord) error {
	if record == nil {
		return dnderr.InvalidArgument("advance record cannot be nil")
	}
	if record.ID == "" {
		return dnderr.InvalidArgument("advance ID is required")
	}
	if record.CharacterID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}
	if _, err := character.ParseAdvanceType(string(record.Type)); err != nil {
		return err
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dnderr.Wrap(err, "begin append").WithMeta("character_id", record.CharacterID)
	}
	defer func() { _ = tx.Rollback() }()

	last, err := lastAdvance(ctx, tx, record.CharacterID)
	if err != nil {
		return err
	}
	if record.AdvanceNumber != last+1 {
		return dnderr.Statef("advance %d is out of order; history for %s ends at %d",
			record.AdvanceNumber, record.CharacterID, last).
			WithMeta("character_id", record.CharacterID)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO character_advances (`+advanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CharacterID,
		record.AdvanceNumber,
		string(record.Type),
		nullable(record.EdgeID),
		nullable(record.AttributeID),
		nullable(record.SkillID1),
		nullable(record.SkillID2),
		nullable(record.HindranceID),
		nullable(string(record.HindranceAction)),
		nullable(record.Notes),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isConstraintError(err) {
			return dnderr.AlreadyExistsf("advance %s already exists", record.ID).
				WithMeta("advance_id", record.ID)
		}
		return dnderr.Wrap(err, "insert advance").WithMeta("advance_id", record.ID)
	}

	if err := tx.Commit(); err != nil {
		return dnderr.Wrap(err, "commit append").WithMeta("advance_id", record.ID)
	}
	return nil
}

// ListByCharacter returns a character's advances ordered by advance number
func (r *SQLiteRepository) ListByCharacter(ctx context.Context, characterID string) ([]character.AdvanceRecord, error) {
	if characterID == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+advanceColumns+`
		FROM character_advances WHERE character_id = ? ORDER BY advance_number`, characterID)
	if err != nil {
		return nil, dnderr.Wrap(err, "query advances").WithMeta("character_id", characterID)
	}
	defer rows.Close()

	var records []character.AdvanceRecord
	for rows.Next() {
		rec, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, dnderr.Wrap(err, "iterate advances").WithMeta("character_id", characterID)
	}
	return records, nil
}

// DeleteLatest removes the character's last advance
func (r *SQLiteRepository) DeleteLatest(ctx context.Context, characterID string, advanceNumber int) error {
	if characterID == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dnderr.Wrap(err, "begin delete").WithMeta("character_id", characterID)
	}
	defer func() { _ = tx.Rollback() }()

	last, err := lastAdvance(ctx, tx, characterID)
	if err != nil {
		return err
	}
	if last == 0 {
		return dnderr.NotFoundf("no advances stored for character '%s'", characterID).
			WithMeta("character_id", characterID)
	}
	if last != advanceNumber {
		return dnderr.Statef("advance %d is not the latest for %s (latest is %d)", advanceNumber, characterID, last).
			WithMeta("character_id", characterID)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM character_advances WHERE character_id = ? AND advance_number = ?`,
		characterID, advanceNumber)
	if err != nil {
		return dnderr.Wrap(err, "delete advance").WithMeta("character_id", characterID)
	}

	if err := tx.Commit(); err != nil {
		return dnderr.Wrap(err, "commit delete").WithMeta("character_id", characterID)
	}
	return nil
}

func lastAdvance(ctx context.Context, tx *sql.Tx, characterID string) (int, error) {
	var last int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(advance_number), 0) FROM character_advances WHERE character_id = ?`,
		characterID).Scan(&last)
	if err != nil {
		return 0, dnderr.Wrap(err, "read last advance").WithMeta("character_id", characterID)
	}
	return last, nil
}

func scanAdvance(rows *sql.Rows) (character.AdvanceRecord, error) {
	var (
		rec                                character.AdvanceRecord
		advanceType                        string
		edgeID, attributeID, skill1        sql.NullString
		skill2, hindranceID, action, notes sql.NullString
		createdAt, updatedAt               int64
	)
	err := rows.Scan(&rec.ID, &rec.CharacterID, &rec.AdvanceNumber, &advanceType,
		&edgeID, &attributeID, &skill1, &skill2, &hindranceID, &action, &notes,
		&createdAt, &updatedAt)
	if err != nil {
		return rec, dnderr.Wrap(err, "scan advance")
	}

	if rec.Type, err = character.ParseAdvanceType(advanceType); err != nil {
		return rec, dnderr.Wrapf(err, "advance %s", rec.ID)
	}
	if rec.HindranceAction, err = character.ParseHindranceAction(action.String); err != nil {
		return rec, dnderr.WrapWithCode(err, dnderr.CodeState, "advance "+rec.ID+" has a bad hindrance action")
	}
	rec.EdgeID = edgeID.String
	rec.AttributeID = attributeID.String
	rec.SkillID1 = skill1.String
	rec.SkillID2 = skill2.String
	rec.HindranceID = hindranceID.String
	rec.Notes = notes.String
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
