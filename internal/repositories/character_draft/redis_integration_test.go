package character_draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/repositories/character_draft"
	"github.com/KirkDiggler/savage-character-engine/internal/testutils"
)

func TestRedisRepository_Integration(t *testing.T) {
	client := testutils.CreateTestRedisClientOrSkip(t)
	repo := character_draft.NewRedisRepository(&character_draft.RedisRepoConfig{
		Client:   client,
		DraftTTL: time.Minute,
	})
	ctx := context.Background()

	older := newDraft("d1", "owner-1", baseTime)
	newer := newDraft("d2", "owner-1", baseTime.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.Get(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, "char-d1", got.Character.ID)
		assert.Equal(t, dice.MustNew(8), got.Character.Attributes["agility"])
		assert.True(t, got.UpdatedAt.Equal(baseTime))

		ttl, err := client.TTL(ctx, "draft:d1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("lookups", func(t *testing.T) {
		byChar, err := repo.GetByCharacterID(ctx, "char-d2")
		require.NoError(t, err)
		assert.Equal(t, "d2", byChar.ID)

		list, err := repo.ListByOwner(ctx, "owner-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "d2", list[0].ID)
	})

	t.Run("update and delete", func(t *testing.T) {
		older.Character.Name = "Blue"
		older.OwnerID = "owner-2"
		require.NoError(t, repo.Update(ctx, older))

		moved, err := repo.ListByOwner(ctx, "owner-2")
		require.NoError(t, err)
		require.Len(t, moved, 1)
		assert.Equal(t, "Blue", moved[0].Character.Name)

		require.NoError(t, repo.Delete(ctx, "d1"))
		_, err = repo.Get(ctx, "d1")
		assert.True(t, dnderr.IsNotFound(err))
		_, err = repo.GetByCharacterID(ctx, "char-d1")
		assert.True(t, dnderr.IsNotFound(err))
	})
}
