package advancement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/advancement"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/requirements"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	mockrulebook "github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook/mock"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/testutils"
	mockuuid "github.com/KirkDiggler/savage-character-engine/internal/uuid/mock"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type EngineTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockUUID *mockuuid.MockGenerator
	rulebook *rulebook.Rulebook
	engine   *advancement.Engine
	char     *character.Character
}

func (s *EngineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockUUID = mockuuid.NewMockGenerator(s.ctrl)
	s.mockUUID.EXPECT().New().Return("adv-id").AnyTimes()

	s.rulebook = testutils.CreateTestRulebook()
	s.engine = advancement.NewEngine(&advancement.EngineConfig{
		Catalog:       s.rulebook,
		UUIDGenerator: s.mockUUID,
		Now:           func() time.Time { return fixedNow },
	})
	s.char = testutils.CreateTestCharacter("char-1")
}

func (s *EngineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

// normalize drops the difference between nil and empty lists so restored
// characters can be compared with the originals
func normalize(c *character.Character) *character.Character {
	out := c.Clone()
	for _, list := range []*[]string{&out.Edges, &out.Hindrances, &out.Powers, &out.Gear, &out.ArcaneBackgrounds} {
		if len(*list) == 0 {
			*list = nil
		}
	}
	if len(out.Advances) == 0 {
		out.Advances = nil
	}
	return out
}

func (s *EngineTestSuite) requireRestored(want, got *character.Character) {
	s.Require().Equal(normalize(want), normalize(got))
}

func (s *EngineTestSuite) apply(c *character.Character, err error) *character.Character {
	s.Require().NoError(err)
	s.Require().NotNil(c)
	return c
}

// withAdvances pads the history so the character sits at a given rank
func withAdvances(c *character.Character, n int) *character.Character {
	out := c.Clone()
	for i := 0; i < n; i++ {
		out.Advances = append(out.Advances, character.AdvanceRecord{
			ID:            "filler",
			CharacterID:   c.ID,
			AdvanceNumber: out.NextAdvanceNumber(),
			Type:          character.AdvanceHindrance,
			HindranceID:   "ignored",
			// a banked half removal of a hindrance the character never had
			HindranceAction: character.HindranceRemoveMajorHalf,
		})
	}
	return out
}

func (s *EngineTestSuite) TestApplyEdgeAdvance() {
	out := s.apply(s.engine.ApplyEdgeAdvance(s.char, "alertness"))

	s.True(out.HasEdge("alertness"))
	s.False(s.char.HasEdge("alertness"), "input untouched")
	s.Require().Len(out.Advances, 1)
	rec := out.Advances[0]
	s.Equal("adv-id", rec.ID)
	s.Equal("char-1", rec.CharacterID)
	s.Equal(1, rec.AdvanceNumber)
	s.Equal(character.AdvanceEdge, rec.Type)
	s.Equal("alertness", rec.EdgeID)
	s.Equal(fixedNow, rec.CreatedAt)

	undone := s.apply(s.engine.UndoAdvance(out))
	s.requireRestored(s.char, undone)
}

func (s *EngineTestSuite) TestApplyEdgeAdvance_Rules() {
	_, err := s.engine.ApplyEdgeAdvance(s.char, "level_headed")
	s.Require().Error(err)
	s.True(dnderr.IsValidation(err))
	s.Contains(err.Error(), "Seasoned")

	out := s.apply(s.engine.ApplyEdgeAdvance(s.char, "berserk"))
	_, err = s.engine.ApplyEdgeAdvance(out, "calm")
	s.True(dnderr.IsValidation(err), "calm excludes berserk")

	_, err = s.engine.ApplyEdgeAdvance(out, "berserk")
	s.True(dnderr.IsValidation(err), "not repeatable")

	_, err = s.engine.ApplyEdgeAdvance(out, "flying")
	s.True(dnderr.IsNotFound(err))
}

func (s *EngineTestSuite) TestApplyEdgeAdvance_DoubleNegation() {
	_, err := s.engine.ApplyEdgeAdvance(s.char, "sweep")
	s.Require().Error(err)
	s.True(dnderr.IsValidation(err))
	s.Contains(err.Error(), "Edge: block")
	s.Contains(err.Error(), "Edge: berserk")

	opts, err := s.engine.GetAdvancementOptions(s.char)
	s.Require().NoError(err)
	sweep := edgeByID(opts.Edges, "sweep")
	s.Require().NotNil(sweep)
	s.False(sweep.Eligible)
	s.Equal([]string{"Edge: block", "Edge: berserk"}, sweep.Unmet)

	out := s.apply(s.engine.ApplyEdgeAdvance(s.char, "berserk"))
	opts, err = s.engine.GetAdvancementOptions(out)
	s.Require().NoError(err)
	s.True(edgeByID(opts.Edges, "sweep").Eligible)

	out = s.apply(s.engine.ApplyEdgeAdvance(out, "sweep"))
	s.True(out.HasEdge("sweep"))
}

func (s *EngineTestSuite) TestApplyEdgeAdvance_RankGate() {
	seasoned := withAdvances(s.char, 4)
	seasoned.Attributes["smarts"] = dice.MustNew(8)

	out := s.apply(s.engine.ApplyEdgeAdvance(seasoned, "level_headed"))
	s.True(out.HasEdge("level_headed"))
	s.Equal(5, out.Advances[4].AdvanceNumber)
}

func (s *EngineTestSuite) TestApplyEdgeAdvance_ArcaneBackground() {
	_, err := s.engine.ApplyEdgeAdvance(s.char, "power_points")
	s.True(dnderr.IsValidation(err))

	out := s.apply(s.engine.ApplyEdgeAdvance(s.char, "arcane_background_magic"))
	s.True(out.HasArcaneBackground("magic"))

	out = s.apply(s.engine.ApplyEdgeAdvance(out, "power_points"))
	out = s.apply(s.engine.ApplyEdgeAdvance(out, "power_points"))
	s.Equal([]string{"arcane_background_magic", "power_points", "power_points"}, out.Edges)

	for i := 0; i < 3; i++ {
		out = s.apply(s.engine.UndoAdvance(out))
	}
	s.False(out.HasArcaneBackground("magic"))
	s.requireRestored(s.char, out)
}

func (s *EngineTestSuite) TestApplyAttributeAdvance() {
	out := s.apply(s.engine.ApplyAttributeAdvance(s.char, "smarts"))
	s.Equal("d8", out.Attributes["smarts"].String())
	s.Equal("d6", s.char.Attributes["smarts"].String())
	s.Equal("smarts", out.Advances[0].AttributeID)

	_, err := s.engine.ApplyAttributeAdvance(out, "spirit")
	s.Require().Error(err)
	s.True(dnderr.IsValidation(err))
	s.Contains(err.Error(), "Novice")

	undone := s.apply(s.engine.UndoAdvance(out))
	s.requireRestored(s.char, undone)
}

func (s *EngineTestSuite) TestApplyAttributeAdvance_RequirementFlips() {
	atLeastD8 := requirements.Leaf(requirements.AttributeAtLeast("spirit", dice.MustNew(8)))
	evaluate := func(c *character.Character) bool {
		_, ctx, err := character.Snapshot(c, s.rulebook)
		s.Require().NoError(err)
		return atLeastD8.Evaluate(ctx)
	}
	s.False(evaluate(s.char))

	out := s.apply(s.engine.ApplyAttributeAdvance(s.char, "spirit"))
	out = s.apply(s.engine.ApplyCheapSkillAdvance(out, "shooting", "stealth"))
	out = s.apply(s.engine.ApplyCheapSkillAdvance(out, "athletics", "persuasion"))
	out = s.apply(s.engine.ApplyEdgeAdvance(out, "alertness"))
	out = s.apply(s.engine.ApplyAttributeAdvance(out, "spirit"))

	s.Equal("d10", out.Attributes["spirit"].String())
	s.True(evaluate(out))
	s.Equal(shared.RankSeasoned, s.rulebook.RankFor(out.AdvanceCount()))
}

func (s *EngineTestSuite) TestApplyAttributeAdvance_Maxed() {
	s.char.Attributes["agility"] = dice.MustNew(12)

	_, err := s.engine.ApplyAttributeAdvance(s.char, "agility")
	s.Require().Error(err)
	s.True(dnderr.IsValidation(err))
	s.Contains(err.Error(), "d12")

	_, err = s.engine.ApplyAttributeAdvance(s.char, "luck")
	s.True(dnderr.IsNotFound(err))
}

func (s *EngineTestSuite) TestApplyAttributeAdvance_Legendary() {
	legendary := withAdvances(s.char, 16)

	out := s.apply(s.engine.ApplyAttributeAdvance(legendary, "smarts"))
	_, err := s.engine.ApplyAttributeAdvance(out, "spirit")
	s.Require().Error(err)
	s.Contains(err.Error(), "back to back")

	out = s.apply(s.engine.ApplyEdgeAdvance(out, "alertness"))
	out = s.apply(s.engine.ApplyAttributeAdvance(out, "spirit"))
	s.Equal("d8", out.Attributes["spirit"].String())
}

func (s *EngineTestSuite) TestApplyExpensiveSkillAdvance() {
	out := s.apply(s.engine.ApplyExpensiveSkillAdvance(s.char, "fighting"))
	s.Equal("d10", out.Skills["fighting"].String())
	s.Equal(character.AdvanceSkillExpensive, out.Advances[0].Type)
	s.Equal("fighting", out.Advances[0].SkillID1)

	undone := s.apply(s.engine.UndoAdvance(out))
	s.requireRestored(s.char, undone)

	_, err := s.engine.ApplyExpensiveSkillAdvance(s.char, "shooting")
	s.Require().Error(err)
	s.True(dnderr.IsValidation(err))
	s.Contains(err.Error(), "cheap")

	_, err = s.engine.ApplyExpensiveSkillAdvance(s.char, "spellcasting")
	s.True(dnderr.IsValidation(err), "untrained skills are below any attribute")

}

func (s *EngineTestSuite) TestApplyExpensiveSkillAdvance_PastD12() {
	s.char.Skills["fighting"] = dice.MustNew(12)

	out := s.apply(s.engine.ApplyExpensiveSkillAdvance(s.char, "fighting"))
	s.Equal("d12+1", out.Skills["fighting"].String())
	out = s.apply(s.engine.ApplyExpensiveSkillAdvance(out, "fighting"))
	s.Equal("d12+2", out.Skills["fighting"].String())

	opts, err := s.engine.GetAdvancementOptions(out)
	s.Require().NoError(err)
	s.Contains(skillIDs(opts.ExpensiveSkills), "fighting", "skills have no ceiling")

	out = s.apply(s.engine.UndoAdvance(out))
	out = s.apply(s.engine.UndoAdvance(out))
	s.requireRestored(s.char, out)
}

func (s *EngineTestSuite) TestApplyCheapSkillAdvance() {
	out := s.apply(s.engine.ApplyCheapSkillAdvance(s.char, "shooting", "survival"))

	s.Equal("d8", out.Skills["shooting"].String())
	s.Equal("d4", out.Skills["survival"].String())
	s.Require().Len(out.Advances, 1, "one advance covers both skills")
	s.Equal(1, out.Advances[0].AdvanceNumber)
	s.Equal("shooting", out.Advances[0].SkillID1)
	s.Equal("survival", out.Advances[0].SkillID2)

	undone := s.apply(s.engine.UndoAdvance(out))
	s.Nil(undone.SkillDie("survival"))
	s.requireRestored(s.char, undone)
}

func (s *EngineTestSuite) TestApplyCheapSkillAdvance_Errors() {
	_, err := s.engine.ApplyCheapSkillAdvance(s.char, "shooting", "shooting")
	s.True(dnderr.IsValidation(err))

	_, err = s.engine.ApplyCheapSkillAdvance(s.char, "shooting", "fighting")
	s.Require().Error(err)
	s.True(dnderr.IsValidation(err))
	s.Contains(err.Error(), "not below")

	_, err = s.engine.ApplyCheapSkillAdvance(s.char, "shooting", "juggling")
	s.True(dnderr.IsNotFound(err))
}

func (s *EngineTestSuite) TestHindranceRemoveMinor() {
	out := s.apply(s.engine.ApplyHindranceAdvance(s.char, "loyal", character.HindranceRemoveMinor))

	s.Equal([]string{"bad_eyes_major"}, out.Hindrances)
	s.Equal(2, out.Points.Earned[character.PointsHindrance])
	s.NoError(out.Points.Validate(), "converted points stay bought")

	undone := s.apply(s.engine.UndoAdvance(out))
	s.requireRestored(s.char, undone)

	_, err := s.engine.ApplyHindranceAdvance(s.char, "bad_eyes_major", character.HindranceRemoveMinor)
	s.True(dnderr.IsValidation(err))
}

func (s *EngineTestSuite) TestHindranceReduceMajor() {
	out := s.apply(s.engine.ApplyHindranceAdvance(s.char, "bad_eyes_major", character.HindranceReduceMajor))

	s.Equal([]string{"bad_eyes_minor", "loyal"}, out.Hindrances)
	s.Equal(2, out.Points.Earned[character.PointsHindrance], "earned points drop by one")
	s.Equal(character.HindranceReduceMajor, out.Advances[0].HindranceAction)

	undone := s.apply(s.engine.UndoAdvance(out))
	s.requireRestored(s.char, undone)

	_, err := s.engine.ApplyHindranceAdvance(s.char, "loyal", character.HindranceReduceMajor)
	s.True(dnderr.IsValidation(err))
}

func (s *EngineTestSuite) TestHindranceRemoveMajorHalf() {
	first := s.apply(s.engine.ApplyHindranceAdvance(s.char, "bad_eyes_major", character.HindranceRemoveMajorHalf))
	s.True(first.HasHindrance("bad_eyes_major"), "first half only banks")
	s.True(first.IsBanked("bad_eyes_major"))
	s.Equal(3, first.Points.Earned[character.PointsHindrance])

	_, err := s.engine.ApplyHindranceAdvance(first, "bad_eyes_major", character.HindranceReduceMajor)
	s.True(dnderr.IsValidation(err))

	mid := s.apply(s.engine.ApplyEdgeAdvance(first, "alertness"))
	second := s.apply(s.engine.ApplyHindranceAdvance(mid, "bad_eyes_major", character.HindranceRemoveMajorHalf))
	s.False(second.HasHindrance("bad_eyes_major"))
	s.False(second.IsBanked("bad_eyes_major"))
	s.Equal(1, second.Points.Earned[character.PointsHindrance])
	s.Require().Len(second.Advances, 3)
	s.Equal(1, second.Advances[0].AdvanceNumber)
	s.Equal(3, second.Advances[2].AdvanceNumber)

	back := s.apply(s.engine.UndoAdvance(second))
	s.requireRestored(mid, back)
	s.True(back.IsBanked("bad_eyes_major"))

	back = s.apply(s.engine.UndoAdvance(back))
	back = s.apply(s.engine.UndoAdvance(back))
	s.requireRestored(s.char, back)
}

func (s *EngineTestSuite) TestHindranceAdvance_Errors() {
	_, err := s.engine.ApplyHindranceAdvance(s.char, "curious", character.HindranceRemoveMajorHalf)
	s.True(dnderr.IsValidation(err), "not taken")

	_, err = s.engine.ApplyHindranceAdvance(s.char, "nope", character.HindranceRemoveMinor)
	s.True(dnderr.IsNotFound(err))

	_, err = s.engine.ApplyHindranceAdvance(s.char, "loyal", "forget")
	s.True(dnderr.IsValidation(err))

	_, err = s.engine.ApplyHindranceAdvance(s.char, "loyal", "")
	s.True(dnderr.IsValidation(err))
}

func (s *EngineTestSuite) TestUndoRestoresEveryOperation() {
	ops := map[string]func(c *character.Character) (*character.Character, error){
		"edge": func(c *character.Character) (*character.Character, error) {
			return s.engine.ApplyEdgeAdvance(c, "quick")
		},
		"attribute": func(c *character.Character) (*character.Character, error) {
			return s.engine.ApplyAttributeAdvance(c, "vigor")
		},
		"expensive skill": func(c *character.Character) (*character.Character, error) {
			return s.engine.ApplyExpensiveSkillAdvance(c, "notice")
		},
		"cheap skill": func(c *character.Character) (*character.Character, error) {
			return s.engine.ApplyCheapSkillAdvance(c, "stealth", "occult")
		},
		"remove minor": func(c *character.Character) (*character.Character, error) {
			return s.engine.ApplyHindranceAdvance(c, "loyal", character.HindranceRemoveMinor)
		},
		"reduce major": func(c *character.Character) (*character.Character, error) {
			return s.engine.ApplyHindranceAdvance(c, "bad_eyes_major", character.HindranceReduceMajor)
		},
	}

	for name, op := range ops {
		s.Run(name, func() {
			before := testutils.CreateTestCharacter("char-1")
			after, err := op(before)
			s.Require().NoError(err)
			s.Len(after.Advances, 1)

			undone, err := s.engine.UndoAdvance(after)
			s.Require().NoError(err)
			s.requireRestored(before, undone)
			s.Empty(undone.Advances)
		})
	}
}

func (s *EngineTestSuite) TestUndoAdvance_Empty() {
	_, err := s.engine.UndoAdvance(s.char)
	s.Require().Error(err)
	s.True(dnderr.IsNotFound(err))
}

func (s *EngineTestSuite) TestUndoAdvance_MismatchedHistory() {
	out := s.apply(s.engine.ApplyEdgeAdvance(s.char, "alertness"))
	out.Edges = nil

	_, err := s.engine.UndoAdvance(out)
	s.Require().Error(err)
	s.True(dnderr.IsState(err))
}

func (s *EngineTestSuite) TestRequiresActiveCharacter() {
	draft := character.NewCharacter("char-2", "owner-1", s.rulebook)

	_, err := s.engine.ApplyEdgeAdvance(draft, "alertness")
	s.True(dnderr.IsValidation(err))

	_, err = s.engine.UndoAdvance(nil)
	s.True(dnderr.IsState(err))
}

func (s *EngineTestSuite) TestSelectModifierTarget() {
	out := s.apply(s.engine.ApplyEdgeAdvance(s.char, "scholar"))

	ev, err := character.ComputeEffectiveValues(out, s.rulebook)
	s.Require().NoError(err)
	s.Len(ev.Pending, 1)

	out = s.apply(s.engine.SelectModifierTarget(out, testutils.ModScholarChoice, "occult"))
	ev, err = character.ComputeEffectiveValues(out, s.rulebook)
	s.Require().NoError(err)
	s.Empty(ev.Pending)
	s.Equal(2, ev.Skills["occult"].Bonus)
	s.Nil(ev.SkillDie("occult"), "a roll bonus does not train the skill")
}

func (s *EngineTestSuite) TestUndoAdvance_DropsSelections() {
	out := s.apply(s.engine.ApplyEdgeAdvance(s.char, "scholar"))
	out = s.apply(s.engine.SelectModifierTarget(out, testutils.ModScholarChoice, "occult"))
	s.Equal("occult", out.Selections[testutils.ModScholarChoice])

	undone := s.apply(s.engine.UndoAdvance(out))
	s.False(undone.HasEdge("scholar"))
	s.Empty(undone.Selections)

	ev, err := character.ComputeEffectiveValues(undone, s.rulebook)
	s.Require().NoError(err)
	s.Empty(ev.Pending)
	s.Zero(ev.Skills["occult"].Bonus)
}

func TestEngine_CatalogErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mockrulebook.NewMockCatalog(ctrl)
	engine := advancement.NewEngine(&advancement.EngineConfig{Catalog: catalog})

	catalog.EXPECT().Attribute("vigor").Return(nil, dnderr.NotFound("attribute vigor not found"))

	c := testutils.CreateTestCharacter("char-1")
	_, err := engine.ApplyAttributeAdvance(c, "vigor")
	if !dnderr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewEngine_RequiresCatalog(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	advancement.NewEngine(&advancement.EngineConfig{})
}
