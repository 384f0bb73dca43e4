package modifiers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/modifiers"
)

var fighting = modifiers.Target{Type: modifiers.TargetSkill, ID: "fighting"}

func skillMod(id int64, valueType modifiers.ValueType, value int) modifiers.Modifier {
	return modifiers.Modifier{
		ID:         id,
		SourceType: modifiers.SourceTypeEdge,
		SourceID:   "brawler",
		TargetType: modifiers.TargetSkill,
		TargetID:   "fighting",
		ValueType:  valueType,
		Value:      value,
	}
}

func TestComputeDie(t *testing.T) {
	tests := []struct {
		name      string
		base      *dice.Rank
		mods      []modifiers.Modifier
		wantDie   string
		wantBonus int
		wantNotes int
	}{
		{
			name:    "no modifiers",
			base:    dice.Ptr(dice.MustNew(6)),
			wantDie: "d6",
		},
		{
			name:    "two increments",
			base:    dice.Ptr(dice.MustNew(6)),
			mods:    []modifiers.Modifier{skillMod(2, modifiers.ValueDieIncrement, 1), skillMod(1, modifiers.ValueDieIncrement, 1)},
			wantDie: "d10",
		},
		{
			name:    "increment past d12",
			base:    dice.Ptr(dice.MustNew(12)),
			mods:    []modifiers.Modifier{skillMod(1, modifiers.ValueDieIncrement, 1)},
			wantDie: "d12+1",
		},
		{
			name:    "untrained becomes d4",
			mods:    []modifiers.Modifier{skillMod(1, modifiers.ValueDieIncrement, 1)},
			wantDie: "d4",
		},
		{
			name:    "negative increment lowers",
			base:    dice.Ptr(dice.MustNew(8)),
			mods:    []modifiers.Modifier{skillMod(1, modifiers.ValueDieIncrement, -1)},
			wantDie: "d6",
		},
		{
			name:    "negative increment floors at d4",
			base:    dice.Ptr(dice.D4()),
			mods:    []modifiers.Modifier{skillMod(1, modifiers.ValueDieIncrement, -1)},
			wantDie: "d4",
		},
		{
			name: "bonuses accumulate apart from the die",
			base: dice.Ptr(dice.MustNew(6)),
			mods: []modifiers.Modifier{
				skillMod(1, modifiers.ValueRollBonus, 2),
				skillMod(2, modifiers.ValueFlatBonus, 1),
				skillMod(3, modifiers.ValueRollBonus, -1),
			},
			wantDie:   "d6",
			wantBonus: 2,
		},
		{
			name: "selection and description are notes",
			base: dice.Ptr(dice.MustNew(6)),
			mods: []modifiers.Modifier{
				{ID: 1, TargetType: modifiers.TargetSkill, TargetID: "fighting", ValueType: modifiers.ValueSelection, Value: 3, Description: "choose a skill"},
				{ID: 2, TargetType: modifiers.TargetSkill, TargetID: "fighting", ValueType: modifiers.ValueDescription, Description: "+1 when outnumbered"},
			},
			wantDie:   "d6",
			wantNotes: 2,
		},
		{
			name: "modifiers for other targets ignored",
			base: dice.Ptr(dice.MustNew(6)),
			mods: []modifiers.Modifier{
				{ID: 1, TargetType: modifiers.TargetSkill, TargetID: "shooting", ValueType: modifiers.ValueDieIncrement, Value: 1},
				{ID: 2, TargetType: modifiers.TargetAttribute, TargetID: "fighting", ValueType: modifiers.ValueDieIncrement, Value: 1},
			},
			wantDie: "d6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := modifiers.ComputeDie(fighting, tt.base, tt.mods)
			require.NotNil(t, got.Die)
			assert.Equal(t, tt.wantDie, got.Die.String())
			assert.Equal(t, tt.wantBonus, got.Bonus)
			assert.Len(t, got.Notes, tt.wantNotes)
			assert.True(t, dice.Equal(tt.base, got.Base), "base is left alone")
		})
	}
}

func TestComputeDie_UntrainedWithoutIncrementStaysUntrained(t *testing.T) {
	got := modifiers.ComputeDie(fighting, nil, []modifiers.Modifier{skillMod(1, modifiers.ValueRollBonus, 1)})
	assert.Nil(t, got.Die)
	assert.Equal(t, 1, got.Bonus)
}

func TestComputeDie_AppliesInIDOrder(t *testing.T) {
	mods := []modifiers.Modifier{
		skillMod(30, modifiers.ValueDieIncrement, 1),
		skillMod(10, modifiers.ValueRollBonus, 1),
		skillMod(20, modifiers.ValueDieIncrement, -1),
	}

	got := modifiers.ComputeDie(fighting, dice.Ptr(dice.D4()), mods)

	// 20 (floor at d4, skipped) then 30 (d6)
	assert.Equal(t, []int64{10, 30}, got.Applied)
	assert.Equal(t, "d6", got.Die.String())
	assert.Equal(t, int64(30), mods[0].ID, "input order untouched")
}

func TestComputeDie_Idempotent(t *testing.T) {
	base := dice.Ptr(dice.MustNew(8))
	mods := []modifiers.Modifier{
		skillMod(3, modifiers.ValueDieIncrement, 1),
		skillMod(1, modifiers.ValueRollBonus, 2),
		skillMod(2, modifiers.ValueDieIncrement, 1),
	}

	first := modifiers.ComputeDie(fighting, base, mods)
	second := modifiers.ComputeDie(fighting, base, mods)

	assert.Equal(t, first, second)
	assert.Equal(t, "d12", second.Die.String())
	assert.Equal(t, "d8", base.String())
}

func TestComputeDerived(t *testing.T) {
	t.Run("bases", func(t *testing.T) {
		got := modifiers.ComputeDerived(modifiers.DerivedInputs{}, nil)
		assert.Equal(t, 6, got[modifiers.StatPace].Value)
		assert.Equal(t, 2, got[modifiers.StatParry].Value)
		assert.Equal(t, 2, got[modifiers.StatToughness].Value)
		assert.Equal(t, 0, got[modifiers.StatSize].Value)
	})

	t.Run("linked dice", func(t *testing.T) {
		got := modifiers.ComputeDerived(modifiers.DerivedInputs{
			Fighting: dice.Ptr(dice.MustNew(8)),
			Vigor:    dice.Ptr(dice.MustWithModifier(12, 2)),
		}, nil)
		assert.Equal(t, 6, got[modifiers.StatParry].Value)
		assert.Equal(t, 9, got[modifiers.StatToughness].Value)
	})

	t.Run("size feeds toughness", func(t *testing.T) {
		mods := []modifiers.Modifier{
			{ID: 1, SourceType: modifiers.SourceTypeAncestry, SourceID: "ogre", TargetType: modifiers.TargetDerivedStat, TargetID: "size", ValueType: modifiers.ValueFlatBonus, Value: 2},
			{ID: 2, SourceType: modifiers.SourceTypeHindrance, SourceID: "slow", TargetType: modifiers.TargetDerivedStat, TargetID: "pace", ValueType: modifiers.ValueFlatBonus, Value: -1},
			{ID: 3, SourceType: modifiers.SourceTypeEdge, SourceID: "fleet_footed", TargetType: modifiers.TargetDerivedStat, TargetID: "pace", ValueType: modifiers.ValueDieIncrement, Value: 1},
			{ID: 4, SourceType: modifiers.SourceTypeEdge, SourceID: "block", TargetType: modifiers.TargetDerivedStat, TargetID: "parry", ValueType: modifiers.ValueRollBonus, Value: 1},
		}
		got := modifiers.ComputeDerived(modifiers.DerivedInputs{Vigor: dice.Ptr(dice.MustNew(6))}, mods)
		assert.Equal(t, 2, got[modifiers.StatSize].Value)
		assert.Equal(t, 7, got[modifiers.StatToughness].Value)
		assert.Equal(t, 6, got[modifiers.StatPace].Value)
		assert.Equal(t, 2, got[modifiers.StatParry].Value)
		assert.Equal(t, 1, got[modifiers.StatParry].RollBonus)

		again := modifiers.ComputeDerived(modifiers.DerivedInputs{Vigor: dice.Ptr(dice.MustNew(6))}, mods)
		assert.Equal(t, got, again)
	})
}

func TestResolve(t *testing.T) {
	mods := []modifiers.Modifier{
		{ID: 7, SourceType: modifiers.SourceTypeAncestry, SourceID: "human", TargetType: modifiers.TargetSkill, ValueType: modifiers.ValueSelection, Description: "one free skill step"},
		{ID: 8, SourceType: modifiers.SourceTypeEdge, SourceID: "scholar", TargetType: modifiers.TargetSkill, ValueType: modifiers.ValueSelection, ResolvesTo: modifiers.ValueRollBonus, Value: 2},
		skillMod(9, modifiers.ValueDieIncrement, 1),
	}

	resolved := modifiers.Resolve(mods, map[int64]string{7: "stealth", 8: "occult"})

	require.Len(t, resolved, 3)
	assert.Equal(t, "stealth", resolved[0].TargetID)
	assert.Equal(t, modifiers.ValueDieIncrement, resolved[0].ValueType)
	assert.Equal(t, 1, resolved[0].Value)
	assert.Equal(t, modifiers.ValueRollBonus, resolved[1].ValueType)
	assert.Equal(t, 2, resolved[1].Value)
	assert.Equal(t, mods[2], resolved[2])
	assert.Equal(t, modifiers.ValueSelection, mods[0].ValueType, "input untouched")

	stealth := modifiers.ComputeDie(modifiers.Target{Type: modifiers.TargetSkill, ID: "stealth"}, nil, resolved)
	require.NotNil(t, stealth.Die)
	assert.Equal(t, "d4", stealth.Die.String())

	pending := modifiers.Pending(mods, map[int64]string{8: "occult"})
	require.Len(t, pending, 1)
	assert.Equal(t, int64(7), pending[0].ID)
}

func TestDecode(t *testing.T) {
	rec := modifiers.Record{ID: 1, SourceType: "Edge", SourceID: "brawny", TargetType: "derived_stat", TargetID: "toughness", ValueType: "flat_bonus", Value: 1}
	got, err := modifiers.Decode(rec, false)
	require.NoError(t, err)
	assert.Equal(t, modifiers.SourceTypeEdge, got.SourceType)
	assert.Equal(t, modifiers.ValueFlatBonus, got.ValueType)

	rec.ValueType = "multiplier"
	_, err = modifiers.Decode(rec, false)
	require.Error(t, err)
	assert.True(t, dnderr.IsState(err))

	got, err = modifiers.Decode(rec, true)
	require.NoError(t, err)
	assert.Equal(t, modifiers.ValueDescription, got.ValueType)
	assert.False(t, got.IsAutomatic())

	rec.ValueType = "flat_bonus"
	rec.TargetType = "weapon"
	_, err = modifiers.Decode(rec, true)
	require.Error(t, err)
	assert.True(t, dnderr.IsState(err))
}
