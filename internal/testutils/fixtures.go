package testutils

import (
	"fmt"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/requirements"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	"github.com/KirkDiggler/savage-character-engine/internal/modifiers"
)

// Modifier IDs used by the test rulebook
const (
	ModAlertnessNotice int64 = 101
	ModBrawnyToughness int64 = 102
	ModScholarChoice   int64 = 104
	ModHumanFreeSkill  int64 = 201
	ModDwarfVigor      int64 = 202
	ModDwarfPace       int64 = 203
	ModSlowMajorPace   int64 = 301
	ModSlowMinorPace   int64 = 302
	ModShieldParry     int64 = 401
)

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("building test rulebook: %v", err))
	}
}

func attr(id string, size int) *requirements.Expression {
	return requirements.Leaf(requirements.AttributeAtLeast(id, dice.MustNew(size)))
}

func skill(id string, size int) *requirements.Expression {
	return requirements.Leaf(requirements.SkillAtLeast(id, dice.MustNew(size)))
}

func rank(tier shared.RankTier) *requirements.Expression {
	return requirements.Leaf(requirements.RankAtLeast(tier))
}

func mod(id int64, source modifiers.SourceType, sourceID string, target modifiers.TargetType, targetID string, vt modifiers.ValueType, value int) modifiers.Modifier {
	return modifiers.Modifier{
		ID:         id,
		SourceType: source,
		SourceID:   sourceID,
		TargetType: target,
		TargetID:   targetID,
		ValueType:  vt,
		Value:      value,
	}
}

// CreateTestRulebook builds a small but complete ruleset
func CreateTestRulebook() *rulebook.Rulebook {
	rb := rulebook.New()

	for _, a := range []string{"agility", "smarts", "spirit", "strength", "vigor"} {
		must(rb.AddAttribute(&rulebook.Attribute{ID: a, Name: a}))
	}

	skills := []rulebook.Skill{
		{ID: "athletics", LinkedAttributeID: "agility", Core: true},
		{ID: "common_knowledge", LinkedAttributeID: "smarts", Core: true},
		{ID: "notice", LinkedAttributeID: "smarts", Core: true},
		{ID: "persuasion", LinkedAttributeID: "spirit", Core: true},
		{ID: "stealth", LinkedAttributeID: "agility", Core: true},
		{ID: "fighting", LinkedAttributeID: "agility"},
		{ID: "shooting", LinkedAttributeID: "agility"},
		{ID: "spellcasting", LinkedAttributeID: "smarts"},
		{ID: "faith", LinkedAttributeID: "spirit"},
		{ID: "occult", LinkedAttributeID: "smarts"},
		{ID: "intimidation", LinkedAttributeID: "spirit"},
		{ID: "survival", LinkedAttributeID: "smarts"},
	}
	for i := range skills {
		s := skills[i]
		s.Name = s.ID
		must(rb.AddSkill(&s))
	}

	hindrances := []*rulebook.Hindrance{
		{ID: "loyal", Name: "Loyal", Severity: rulebook.SeverityMinor, PointValue: 1},
		{ID: "hesitant", Name: "Hesitant", Severity: rulebook.SeverityMinor, PointValue: 1},
		{ID: "curious", Name: "Curious", Severity: rulebook.SeverityMajor, PointValue: 2},
		{ID: "bad_eyes_major", Name: "Bad Eyes (Major)", Severity: rulebook.SeverityMajor, PointValue: 2, CompanionMinorID: "bad_eyes_minor"},
		{ID: "bad_eyes_minor", Name: "Bad Eyes (Minor)", Severity: rulebook.SeverityMinor, PointValue: 1},
		{
			ID: "slow_major", Name: "Slow (Major)", Severity: rulebook.SeverityMajor, PointValue: 2, CompanionMinorID: "slow_minor",
			Modifiers: []modifiers.Modifier{mod(ModSlowMajorPace, modifiers.SourceTypeHindrance, "slow_major", modifiers.TargetDerivedStat, "pace", modifiers.ValueFlatBonus, -2)},
		},
		{
			ID: "slow_minor", Name: "Slow (Minor)", Severity: rulebook.SeverityMinor, PointValue: 1,
			Modifiers: []modifiers.Modifier{mod(ModSlowMinorPace, modifiers.SourceTypeHindrance, "slow_minor", modifiers.TargetDerivedStat, "pace", modifiers.ValueFlatBonus, -1)},
		},
	}
	for _, h := range hindrances {
		must(rb.AddHindrance(h))
	}

	must(rb.AddArcaneBackground(&rulebook.ArcaneBackground{ID: "magic", Name: "Magic", ArcaneSkillID: "spellcasting", StartingPowers: 3, PowerPoints: 10}))
	must(rb.AddArcaneBackground(&rulebook.ArcaneBackground{ID: "miracles", Name: "Miracles", ArcaneSkillID: "faith", StartingPowers: 3, PowerPoints: 10}))

	scholar := mod(ModScholarChoice, modifiers.SourceTypeEdge, "scholar", modifiers.TargetSkill, "", modifiers.ValueSelection, 2)
	scholar.ResolvesTo = modifiers.ValueRollBonus
	scholar.Description = "+2 to one knowledge skill"

	edges := []*rulebook.Edge{
		{
			ID: "alertness", Name: "Alertness",
			Modifiers: []modifiers.Modifier{mod(ModAlertnessNotice, modifiers.SourceTypeEdge, "alertness", modifiers.TargetSkill, "notice", modifiers.ValueRollBonus, 2)},
		},
		{
			ID: "brawny", Name: "Brawny",
			Requirements: requirements.And(rank(shared.RankNovice), attr("strength", 6), attr("vigor", 6)),
			Modifiers:    []modifiers.Modifier{mod(ModBrawnyToughness, modifiers.SourceTypeEdge, "brawny", modifiers.TargetDerivedStat, "toughness", modifiers.ValueFlatBonus, 1)},
		},
		{ID: "quick", Name: "Quick", Requirements: requirements.And(rank(shared.RankNovice), attr("agility", 8))},
		{ID: "level_headed", Name: "Level Headed", Requirements: requirements.And(rank(shared.RankSeasoned), attr("smarts", 8))},
		{ID: "block", Name: "Block", Requirements: requirements.And(rank(shared.RankSeasoned), skill("fighting", 8))},
		{
			ID: "improved_block", Name: "Improved Block",
			Requirements: requirements.And(rank(shared.RankVeteran), requirements.Leaf(requirements.HasEdge("block"))),
		},
		{
			ID: "arcane_background_magic", Name: "Arcane Background (Magic)",
			GrantsArcaneBackgroundID: "magic",
		},
		{
			ID: "power_points", Name: "Power Points", Repeatable: true,
			Requirements: requirements.And(rank(shared.RankNovice), requirements.Leaf(requirements.HasArcaneBackground(""))),
		},
		{
			ID: "scholar", Name: "Scholar",
			Requirements: requirements.And(rank(shared.RankNovice), attr("smarts", 6)),
			Modifiers:    []modifiers.Modifier{scholar},
		},
		{
			ID: "calm", Name: "Calm",
			Requirements: requirements.Not(requirements.Leaf(requirements.HasEdge("berserk"))),
		},
		{ID: "berserk", Name: "Berserk"},
		{
			// Block or Berserk, written as NOT(NOT block AND NOT berserk)
			ID: "sweep", Name: "Sweep",
			Requirements: requirements.Not(requirements.And(
				requirements.Not(requirements.Leaf(requirements.HasEdge("block"))),
				requirements.Not(requirements.Leaf(requirements.HasEdge("berserk"))),
			)),
		},
		{
			ID: "hard_to_kill", Name: "Hard to Kill",
			Requirements: requirements.And(requirements.Leaf(requirements.IsWildCard(true)), attr("spirit", 8)),
		},
	}
	for _, e := range edges {
		must(rb.AddEdge(e))
	}

	powers := []*rulebook.Power{
		{ID: "bolt", Name: "Bolt", PowerPoints: 1, Requirements: requirements.Leaf(requirements.HasArcaneBackground(""))},
		{ID: "blast", Name: "Blast", PowerPoints: 3, MinRank: shared.RankSeasoned},
		{ID: "healing", Name: "Healing", PowerPoints: 3, Requirements: requirements.Leaf(requirements.HasArcaneBackground("miracles"))},
	}
	for _, p := range powers {
		must(rb.AddPower(p))
	}

	human := mod(ModHumanFreeSkill, modifiers.SourceTypeAncestry, "human", modifiers.TargetSkill, "", modifiers.ValueSelection, 0)
	human.Description = "one free skill step"
	must(rb.AddAncestry(&rulebook.Ancestry{ID: "human", Name: "Human", Modifiers: []modifiers.Modifier{human}}))
	must(rb.AddAncestry(&rulebook.Ancestry{
		ID: "dwarf", Name: "Dwarf",
		Modifiers: []modifiers.Modifier{
			mod(ModDwarfVigor, modifiers.SourceTypeAncestry, "dwarf", modifiers.TargetAttribute, "vigor", modifiers.ValueDieIncrement, 1),
			mod(ModDwarfPace, modifiers.SourceTypeAncestry, "dwarf", modifiers.TargetDerivedStat, "pace", modifiers.ValueFlatBonus, -1),
		},
	}))

	gear := []*rulebook.Gear{
		{ID: "rope", Name: "Rope", Cost: 10, Weight: 15},
		{ID: "torch", Name: "Torch", Cost: 5, Weight: 1},
		{ID: "bedroll", Name: "Bedroll", Cost: 25, Weight: 4},
		{
			ID: "adventurer_pack", Name: "Adventurer's Pack",
			Contents: []rulebook.GearContent{{GearID: "rope", Quantity: 1}, {GearID: "torch", Quantity: 3}, {GearID: "bedroll", Quantity: 1}},
		},
		{
			ID: "dungeon_kit", Name: "Dungeon Kit",
			Contents: []rulebook.GearContent{{GearID: "adventurer_pack", Quantity: 2}, {GearID: "torch", Quantity: 2}},
		},
		{ID: "great_sword", Name: "Great Sword", Cost: 400, Weight: 12, Requirements: attr("strength", 8)},
		{
			ID: "medium_shield", Name: "Medium Shield", Cost: 50, Weight: 8,
			Modifiers: []modifiers.Modifier{mod(ModShieldParry, modifiers.SourceTypeGear, "medium_shield", modifiers.TargetDerivedStat, "parry", modifiers.ValueFlatBonus, 2)},
		},
	}
	for _, g := range gear {
		must(rb.AddGear(g))
	}

	must(rb.Validate())
	return rb
}

// CreateTestCharacter returns a finished Novice character with a typical spread:
// agility d8, smarts d6, spirit d6, strength d6, vigor d6; fighting d8,
// shooting d6, notice d6, athletics d6, stealth d4; hindrances loyal and
// bad_eyes_major.
func CreateTestCharacter(id string) *character.Character {
	rb := CreateTestRulebook()
	c := character.NewCharacter(id, "owner-1", rb)
	c.Name = "Red"
	c.AncestryID = "dwarf"
	c.Status = shared.CharacterStatusActive

	c.Attributes["agility"] = dice.MustNew(8)
	c.Attributes["smarts"] = dice.MustNew(6)
	c.Attributes["spirit"] = dice.MustNew(6)
	c.Attributes["strength"] = dice.MustNew(6)
	c.Attributes["vigor"] = dice.MustNew(6)

	c.Skills["fighting"] = dice.MustNew(8)
	c.Skills["shooting"] = dice.MustNew(6)
	c.Skills["notice"] = dice.MustNew(6)
	c.Skills["athletics"] = dice.MustNew(6)

	c.Hindrances = []string{"bad_eyes_major", "loyal"}
	c.Points.Earned[character.PointsHindrance] = 3
	c.Points.Converted[character.PointsAttribute] = 1
	c.Points.Spent[character.PointsAttribute] = 6
	c.Points.Spent[character.PointsSkill] = 7

	return c
}
