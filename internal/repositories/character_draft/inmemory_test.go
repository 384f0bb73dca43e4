package character_draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/repositories/character_draft"
	"github.com/KirkDiggler/savage-character-engine/internal/testutils"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newDraft(id, ownerID string, updated time.Time) *character.CharacterDraft {
	char := testutils.CreateTestCharacter("char-" + id)
	char.OwnerID = ownerID
	return &character.CharacterDraft{
		ID:        id,
		OwnerID:   ownerID,
		CreatedAt: baseTime,
		UpdatedAt: updated,
		Character: char,
	}
}

func TestInMemoryRepository_Create(t *testing.T) {
	setup := func(t *testing.T) (character_draft.Repository, context.Context) {
		t.Helper()
		return character_draft.NewInMemoryRepository(), context.Background()
	}

	t.Run("creates new draft successfully", func(t *testing.T) {
		repo, ctx := setup(t)
		draft := newDraft("123", "user-123", baseTime)

		require.NoError(t, repo.Create(ctx, draft))

		retrieved, err := repo.Get(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft, retrieved)
	})

	t.Run("rejects invalid drafts", func(t *testing.T) {
		repo, ctx := setup(t)

		testCases := []struct {
			name   string
			draft  *character.CharacterDraft
			errMsg string
		}{
			{name: "nil", draft: nil, errMsg: "draft cannot be nil"},
			{name: "no id", draft: &character.CharacterDraft{OwnerID: "o"}, errMsg: "draft ID is required"},
			{name: "no owner", draft: &character.CharacterDraft{ID: "d"}, errMsg: "owner ID is required"},
			{name: "no character", draft: &character.CharacterDraft{ID: "d", OwnerID: "o"}, errMsg: "draft character is required"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				err := repo.Create(ctx, tc.draft)
				require.Error(t, err)
				assert.True(t, dnderr.IsInvalidArgument(err))
				assert.Contains(t, err.Error(), tc.errMsg)
			})
		}
	})

	t.Run("rejects duplicate draft and character", func(t *testing.T) {
		repo, ctx := setup(t)
		require.NoError(t, repo.Create(ctx, newDraft("1", "owner", baseTime)))

		err := repo.Create(ctx, newDraft("1", "owner", baseTime))
		assert.True(t, dnderr.IsAlreadyExists(err))

		second := newDraft("2", "owner", baseTime)
		second.Character.ID = "char-1"
		err = repo.Create(ctx, second)
		assert.True(t, dnderr.IsAlreadyExists(err))
	})
}

func TestInMemoryRepository_Isolation(t *testing.T) {
	repo := character_draft.NewInMemoryRepository()
	ctx := context.Background()
	draft := newDraft("1", "owner", baseTime)
	require.NoError(t, repo.Create(ctx, draft))

	draft.Character.Attributes["agility"] = dice.MustNew(12)

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "d8", got.Character.Attributes["agility"].String())

	got.Character.Name = "changed"
	again, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Red", again.Character.Name)
}

func TestInMemoryRepository_Lookups(t *testing.T) {
	repo := character_draft.NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDraft("a", "owner-1", baseTime)))
	require.NoError(t, repo.Create(ctx, newDraft("b", "owner-1", baseTime.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newDraft("c", "owner-2", baseTime)))

	t.Run("by character", func(t *testing.T) {
		got, err := repo.GetByCharacterID(ctx, "char-b")
		require.NoError(t, err)
		assert.Equal(t, "b", got.ID)

		_, err = repo.GetByCharacterID(ctx, "char-z")
		assert.True(t, dnderr.IsNotFound(err))
	})

	t.Run("by owner, newest first", func(t *testing.T) {
		drafts, err := repo.ListByOwner(ctx, "owner-1")
		require.NoError(t, err)
		require.Len(t, drafts, 2)
		assert.Equal(t, "b", drafts[0].ID)
		assert.Equal(t, "a", drafts[1].ID)

		none, err := repo.ListByOwner(ctx, "owner-3")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.Get(ctx, "zzz")
		assert.True(t, dnderr.IsNotFound(err))

		_, err = repo.Get(ctx, "")
		assert.True(t, dnderr.IsInvalidArgument(err))
	})
}

func TestInMemoryRepository_UpdateDelete(t *testing.T) {
	repo := character_draft.NewInMemoryRepository()
	ctx := context.Background()

	draft := newDraft("1", "owner", baseTime)
	assert.True(t, dnderr.IsNotFound(repo.Update(ctx, draft)))

	require.NoError(t, repo.Create(ctx, draft))
	draft.Character.Name = "Blue"
	draft.CurrentStep = character.SkillsStep
	require.NoError(t, repo.Update(ctx, draft))

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Blue", got.Character.Name)
	assert.Equal(t, character.SkillsStep, got.CurrentStep)

	require.NoError(t, repo.Delete(ctx, "1"))
	_, err = repo.Get(ctx, "1")
	assert.True(t, dnderr.IsNotFound(err))
	assert.True(t, dnderr.IsNotFound(repo.Delete(ctx, "1")))
}
