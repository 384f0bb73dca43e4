package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
)

func TestRankForAdvances(t *testing.T) {
	tests := []struct {
		advances int
		want     shared.RankTier
	}{
		{advances: 0, want: shared.RankNovice},
		{advances: 3, want: shared.RankNovice},
		{advances: 4, want: shared.RankSeasoned},
		{advances: 8, want: shared.RankVeteran},
		{advances: 15, want: shared.RankHeroic},
		{advances: 16, want: shared.RankLegendary},
		{advances: 40, want: shared.RankLegendary},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, shared.RankForAdvances(tt.advances), "advances=%d", tt.advances)
	}
}

func TestParseRankTier(t *testing.T) {
	tier, err := shared.ParseRankTier("Seasoned")
	require.NoError(t, err)
	assert.Equal(t, shared.RankSeasoned, tier)

	tier, err = shared.ParseRankTier("3")
	require.NoError(t, err)
	assert.Equal(t, shared.RankHeroic, tier)

	_, err = shared.ParseRankTier("9")
	assert.Error(t, err)

	_, err = shared.ParseRankTier("mythic")
	assert.Error(t, err)

	assert.Equal(t, "Legendary", shared.RankLegendary.Title())
}
