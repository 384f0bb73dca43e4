package rulebook_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/testutils"
)

func TestRulebook_Register(t *testing.T) {
	rb := rulebook.New()

	require.NoError(t, rb.AddAttribute(&rulebook.Attribute{ID: "vigor", Name: "Vigor"}))
	require.NoError(t, rb.AddAttribute(&rulebook.Attribute{ID: "agility", Name: "Agility"}))

	err := rb.AddAttribute(&rulebook.Attribute{ID: "vigor"})
	assert.True(t, dnderr.IsAlreadyExists(err))

	err = rb.AddAttribute(&rulebook.Attribute{})
	assert.True(t, dnderr.IsInvalidArgument(err))

	err = rb.AddEdge(nil)
	assert.True(t, dnderr.IsInvalidArgument(err))

	a, err := rb.Attribute("vigor")
	require.NoError(t, err)
	assert.Equal(t, "Vigor", a.Name)

	_, err = rb.Attribute("luck")
	assert.True(t, dnderr.IsNotFound(err))
	assert.Equal(t, "luck", dnderr.GetMeta(err)["id"])

	list := rb.Attributes()
	require.Len(t, list, 2)
	assert.Equal(t, "agility", list[0].ID, "lists are sorted by id")
}

func TestRulebook_ConcurrentReads(t *testing.T) {
	rb := testutils.CreateTestRulebook()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = rb.Edge("alertness")
			_ = rb.Skills()
			_, _ = rb.ExpandGear("dungeon_kit")
		}()
	}
	wg.Wait()
}

func TestRulebook_RankFor(t *testing.T) {
	rb := rulebook.New()

	assert.Equal(t, shared.RankNovice, rb.RankFor(0))
	assert.Equal(t, shared.RankNovice, rb.RankFor(3))
	assert.Equal(t, shared.RankSeasoned, rb.RankFor(4))
	assert.Equal(t, shared.RankLegendary, rb.RankFor(16))
	assert.Equal(t, shared.RankLegendary, rb.RankFor(40))

	require.NoError(t, rb.SetRanks([]rulebook.Rank{
		{Tier: shared.RankSeasoned, Name: "Seasoned", MinAdvances: 2},
		{Tier: shared.RankNovice, Name: "Novice", MinAdvances: 0},
	}))
	assert.Equal(t, shared.RankNovice, rb.RankFor(1))
	assert.Equal(t, shared.RankSeasoned, rb.RankFor(2))
	assert.Equal(t, shared.RankSeasoned, rb.RankFor(30))
	assert.Len(t, rb.Ranks(), 2)
}

func TestRulebook_SetRanksErrors(t *testing.T) {
	tests := []struct {
		name  string
		ranks []rulebook.Rank
	}{
		{
			name:  "gap in tiers",
			ranks: []rulebook.Rank{{Tier: shared.RankNovice}, {Tier: shared.RankVeteran, MinAdvances: 8}},
		},
		{
			name:  "novice starts late",
			ranks: []rulebook.Rank{{Tier: shared.RankNovice, MinAdvances: 1}},
		},
		{
			name:  "thresholds not increasing",
			ranks: []rulebook.Rank{{Tier: shared.RankNovice}, {Tier: shared.RankSeasoned, MinAdvances: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := rulebook.New()
			err := rb.SetRanks(tt.ranks)
			require.Error(t, err)
			assert.True(t, dnderr.IsState(err))
			assert.Empty(t, rb.Ranks())
		})
	}
}

func TestRulebook_ExpandGear(t *testing.T) {
	rb := testutils.CreateTestRulebook()

	items, err := rb.ExpandGear("dungeon_kit")
	require.NoError(t, err)
	assert.Equal(t, []rulebook.GearItem{
		{GearID: "bedroll", Quantity: 2},
		{GearID: "rope", Quantity: 2},
		{GearID: "torch", Quantity: 8},
	}, items)

	items, err = rb.ExpandGear("rope")
	require.NoError(t, err)
	assert.Equal(t, []rulebook.GearItem{{GearID: "rope", Quantity: 1}}, items)

	_, err = rb.ExpandGear("missing")
	assert.True(t, dnderr.IsNotFound(err))
}

func TestRulebook_ExpandGearCycle(t *testing.T) {
	rb := rulebook.New()
	require.NoError(t, rb.AddGear(&rulebook.Gear{ID: "a", Contents: []rulebook.GearContent{{GearID: "b", Quantity: 1}}}))
	require.NoError(t, rb.AddGear(&rulebook.Gear{ID: "b", Contents: []rulebook.GearContent{{GearID: "a", Quantity: 1}}}))

	_, err := rb.ExpandGear("a")
	require.Error(t, err)
	assert.True(t, dnderr.IsValidation(err))
	assert.Contains(t, err.Error(), "contains itself")

	err = rb.Validate()
	assert.True(t, dnderr.IsValidation(err))
}

func TestRulebook_Validate(t *testing.T) {
	base := func() *rulebook.Rulebook {
		rb := rulebook.New()
		require.NoError(t, rb.AddAttribute(&rulebook.Attribute{ID: "smarts"}))
		require.NoError(t, rb.AddSkill(&rulebook.Skill{ID: "notice", LinkedAttributeID: "smarts"}))
		return rb
	}

	tests := []struct {
		name  string
		setup func(rb *rulebook.Rulebook)
		want  string
	}{
		{
			name: "skill with unknown attribute",
			setup: func(rb *rulebook.Rulebook) {
				require.NoError(t, rb.AddSkill(&rulebook.Skill{ID: "faith", LinkedAttributeID: "spirit"}))
			},
			want: "unknown attribute",
		},
		{
			name: "unknown severity",
			setup: func(rb *rulebook.Rulebook) {
				require.NoError(t, rb.AddHindrance(&rulebook.Hindrance{ID: "odd", Severity: "awful"}))
			},
			want: "unknown severity",
		},
		{
			name: "companion is major",
			setup: func(rb *rulebook.Rulebook) {
				require.NoError(t, rb.AddHindrance(&rulebook.Hindrance{ID: "a", Severity: rulebook.SeverityMajor, CompanionMinorID: "b"}))
				require.NoError(t, rb.AddHindrance(&rulebook.Hindrance{ID: "b", Severity: rulebook.SeverityMajor}))
			},
			want: "reduce to a minor",
		},
		{
			name: "companion missing",
			setup: func(rb *rulebook.Rulebook) {
				require.NoError(t, rb.AddHindrance(&rulebook.Hindrance{ID: "a", Severity: rulebook.SeverityMajor, CompanionMinorID: "b"}))
			},
			want: "unknown hindrance",
		},
		{
			name: "arcane background skill missing",
			setup: func(rb *rulebook.Rulebook) {
				require.NoError(t, rb.AddArcaneBackground(&rulebook.ArcaneBackground{ID: "magic", ArcaneSkillID: "spellcasting"}))
			},
			want: "unknown skill",
		},
		{
			name: "edge grants missing arcane background",
			setup: func(rb *rulebook.Rulebook) {
				require.NoError(t, rb.AddEdge(&rulebook.Edge{ID: "ab", GrantsArcaneBackgroundID: "psionics"}))
			},
			want: "unknown arcane background",
		},
		{
			name: "pack with unknown contents",
			setup: func(rb *rulebook.Rulebook) {
				require.NoError(t, rb.AddGear(&rulebook.Gear{ID: "pack", Contents: []rulebook.GearContent{{GearID: "ghost", Quantity: 1}}}))
			},
			want: "unknown contents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := base()
			tt.setup(rb)

			err := rb.Validate()
			require.Error(t, err)
			assert.True(t, dnderr.IsState(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, base().Validate())
}

func TestRulebook_AllModifiers(t *testing.T) {
	rb := testutils.CreateTestRulebook()

	mods := rb.AllModifiers()
	require.NotEmpty(t, mods)
	for i := 1; i < len(mods); i++ {
		assert.Less(t, mods[i-1].ID, mods[i].ID)
	}
}
