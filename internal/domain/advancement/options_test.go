package advancement_test

import (
	"github.com/KirkDiggler/savage-character-engine/internal/domain/advancement"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
)

func skillIDs(opts []advancement.SkillOption) []string {
	ids := make([]string, 0, len(opts))
	for _, o := range opts {
		ids = append(ids, o.SkillID)
	}
	return ids
}

func edgeByID(opts []advancement.EdgeOption, id string) *advancement.EdgeOption {
	for i := range opts {
		if opts[i].EdgeID == id {
			return &opts[i]
		}
	}
	return nil
}

func (s *EngineTestSuite) TestGetAdvancementOptions() {
	opts, err := s.engine.GetAdvancementOptions(s.char)
	s.Require().NoError(err)

	s.Equal(1, opts.AdvanceNumber)
	s.Equal(shared.RankNovice, opts.Rank)
	s.Equal(shared.RankNovice, opts.NextRank)
	s.Empty(opts.AttributeBlocked)

	s.Require().Len(opts.Attributes, 5)
	s.Equal("agility", opts.Attributes[0].AttributeID)
	s.Equal("d10", opts.Attributes[0].Next.String())
	s.False(opts.Attributes[0].Maxed)

	expensive := skillIDs(opts.ExpensiveSkills)
	s.Contains(expensive, "fighting")
	s.Contains(expensive, "notice")
	s.NotContains(expensive, "shooting")

	cheap := skillIDs(opts.CheapSkills)
	s.Contains(cheap, "shooting")
	s.Contains(cheap, "stealth")
	s.Contains(cheap, "spellcasting")
	for _, o := range opts.CheapSkills {
		if o.SkillID == "spellcasting" {
			s.Nil(o.Current)
			s.Equal("d4", o.Next.String())
		}
	}

	s.Require().Len(opts.Hindrances, 2)
	s.Equal("bad_eyes_major", opts.Hindrances[0].HindranceID)
	s.Equal([]character.HindranceAction{character.HindranceReduceMajor, character.HindranceRemoveMajorHalf}, opts.Hindrances[0].Actions)
	s.False(opts.Hindrances[0].Banked)
	s.Equal([]character.HindranceAction{character.HindranceRemoveMinor}, opts.Hindrances[1].Actions)

	alertness := edgeByID(opts.Edges, "alertness")
	s.Require().NotNil(alertness)
	s.True(alertness.Eligible)

	brawny := edgeByID(opts.Edges, "brawny")
	s.Require().NotNil(brawny)
	s.True(brawny.Eligible, "the dwarf vigor bonus counts")

	levelHeaded := edgeByID(opts.Edges, "level_headed")
	s.Require().NotNil(levelHeaded)
	s.False(levelHeaded.Eligible)
	s.Equal([]string{"Seasoned", "smarts d8+"}, levelHeaded.Unmet)
	s.Equal("Seasoned AND smarts d8+", levelHeaded.Requirements)
}

func (s *EngineTestSuite) TestGetAdvancementOptions_AfterAdvances() {
	out := s.apply(s.engine.ApplyAttributeAdvance(s.char, "smarts"))
	out = s.apply(s.engine.ApplyEdgeAdvance(out, "alertness"))
	out = s.apply(s.engine.ApplyHindranceAdvance(out, "bad_eyes_major", character.HindranceRemoveMajorHalf))

	opts, err := s.engine.GetAdvancementOptions(out)
	s.Require().NoError(err)

	s.Equal(4, opts.AdvanceNumber)
	s.Equal(shared.RankNovice, opts.Rank)
	s.Equal(shared.RankSeasoned, opts.NextRank)
	s.Contains(opts.AttributeBlocked, "Novice")
	s.Nil(edgeByID(opts.Edges, "alertness"), "owned edges are not offered again")

	s.Equal("bad_eyes_major", opts.Hindrances[0].HindranceID)
	s.True(opts.Hindrances[0].Banked)
	s.Equal([]character.HindranceAction{character.HindranceRemoveMajorHalf}, opts.Hindrances[0].Actions)

	s.Contains(skillIDs(opts.CheapSkills), "notice", "raising smarts makes notice cheap")
}
