package advances_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/repositories/advances"
)

var created = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func openRepo(t *testing.T, path string) *advances.SQLiteRepository {
	t.Helper()
	repo, err := advances.NewSQLiteRepository(context.Background(), &advances.SQLiteConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func record(id, characterID string, n int) *character.AdvanceRecord {
	return &character.AdvanceRecord{
		ID:            id,
		CharacterID:   characterID,
		AdvanceNumber: n,
		Type:          character.AdvanceEdge,
		EdgeID:        "alertness",
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestSQLiteRepository_AppendAndList(t *testing.T) {
	repo := openRepo(t, filepath.Join(t.TempDir(), "advances.db"))
	ctx := context.Background()

	hindrance := &character.AdvanceRecord{
		ID:              "a2",
		CharacterID:     "char-1",
		AdvanceNumber:   2,
		Type:            character.AdvanceHindrance,
		HindranceID:     "bad_eyes_major",
		HindranceAction: character.HindranceRemoveMajorHalf,
		Notes:           "first half",
		CreatedAt:       created.Add(time.Minute),
		UpdatedAt:       created.Add(time.Minute),
	}
	cheap := &character.AdvanceRecord{
		ID:            "a3",
		CharacterID:   "char-1",
		AdvanceNumber: 3,
		Type:          character.AdvanceSkillCheap,
		SkillID1:      "stealth",
		SkillID2:      "shooting",
		CreatedAt:     created,
		UpdatedAt:     created,
	}

	require.NoError(t, repo.Append(ctx, record("a1", "char-1", 1)))
	require.NoError(t, repo.Append(ctx, hindrance))
	require.NoError(t, repo.Append(ctx, cheap))
	require.NoError(t, repo.Append(ctx, record("b1", "char-2", 1)))

	got, err := repo.ListByCharacter(ctx, "char-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, *record("a1", "char-1", 1), got[0])
	assert.Equal(t, *hindrance, got[1])
	assert.Equal(t, *cheap, got[2], "advance number orders the history, not timestamps")

	none, err := repo.ListByCharacter(ctx, "char-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRepository_AppendErrors(t *testing.T) {
	repo := openRepo(t, filepath.Join(t.TempDir(), "advances.db"))
	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, record("a1", "char-1", 1)))

	testCases := []struct {
		name  string
		rec   *character.AdvanceRecord
		check func(error) bool
	}{
		{name: "nil", rec: nil, check: dnderr.IsInvalidArgument},
		{name: "no id", rec: record("", "char-1", 2), check: dnderr.IsInvalidArgument},
		{name: "gap", rec: record("a3", "char-1", 3), check: dnderr.IsState},
		{name: "repeat number", rec: record("a1b", "char-1", 1), check: dnderr.IsState},
		{name: "duplicate id", rec: record("a1", "char-2", 1), check: dnderr.IsAlreadyExists},
		{
			name:  "unknown type",
			rec:   &character.AdvanceRecord{ID: "x", CharacterID: "char-1", AdvanceNumber: 2, Type: "feat"},
			check: dnderr.IsState,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.Append(ctx, tc.rec)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error %v", err)
		})
	}
}

func TestSQLiteRepository_DeleteLatest(t *testing.T) {
	repo := openRepo(t, filepath.Join(t.TempDir(), "advances.db"))
	ctx := context.Background()

	assert.True(t, dnderr.IsNotFound(repo.DeleteLatest(ctx, "char-1", 1)))

	require.NoError(t, repo.Append(ctx, record("a1", "char-1", 1)))
	require.NoError(t, repo.Append(ctx, record("a2", "char-1", 2)))

	assert.True(t, dnderr.IsState(repo.DeleteLatest(ctx, "char-1", 1)))
	require.NoError(t, repo.DeleteLatest(ctx, "char-1", 2))

	got, err := repo.ListByCharacter(ctx, "char-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)

	require.NoError(t, repo.Append(ctx, record("a2-again", "char-1", 2)), "the freed number can be reused")
}

func TestSQLiteRepository_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advances.db")
	ctx := context.Background()

	first, err := advances.NewSQLiteRepository(ctx, &advances.SQLiteConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, record("a1", "char-1", 1)))
	require.NoError(t, first.Close())

	second := openRepo(t, path)
	got, err := second.ListByCharacter(ctx, "char-1")
	require.NoError(t, err)
	assert.Len(t, got, 1, "migrations run once and data survives")
}

func TestNewSQLiteRepository_RequiresPath(t *testing.T) {
	_, err := advances.NewSQLiteRepository(context.Background(), &advances.SQLiteConfig{})
	assert.True(t, dnderr.IsInvalidArgument(err))

	_, err = advances.NewSQLiteRepository(context.Background(), nil)
	assert.True(t, dnderr.IsInvalidArgument(err))
}
