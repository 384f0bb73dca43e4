package advancement

import (
	"time"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/uuid"
)

// Engine applies advances to finished characters. Every operation validates
// against a copy of the character and returns the changed copy; on error the
// input is left exactly as it was.
type Engine struct {
	catalog rulebook.Catalog
	uuidGen uuid.Generator
	now     func() time.Time
}

// EngineConfig holds the engine's collaborators
type EngineConfig struct {
	Catalog       rulebook.Catalog // Required
	UUIDGenerator uuid.Generator   // Optional, defaults to google uuid
	Now           func() time.Time // Optional, defaults to time.Now
}

// NewEngine creates an advancement engine
func NewEngine(cfg *EngineConfig) *Engine {
	if cfg == nil || cfg.Catalog == nil {
		panic("catalog is required")
	}

	e := &Engine{
		catalog: cfg.Catalog,
		uuidGen: cfg.UUIDGenerator,
		now:     cfg.Now,
	}
	if e.uuidGen == nil {
		e.uuidGen = uuid.NewGoogleUUIDGenerator()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

func requireActive(c *character.Character) error {
	if c == nil {
		return dnderr.State("no character in progress")
	}
	if c.Status != shared.CharacterStatusActive {
		return dnderr.Validationf("%s cannot take advances while %s", c.Name, c.Status).
			WithMeta("character_id", c.ID)
	}
	return nil
}

// newRecord builds the next history entry for the character
func (e *Engine) newRecord(c *character.Character, t character.AdvanceType) character.AdvanceRecord {
	now := e.now()
	return character.AdvanceRecord{
		ID:            e.uuidGen.New(),
		CharacterID:   c.ID,
		AdvanceNumber: c.NextAdvanceNumber(),
		Type:          t,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyEdgeAdvance takes an edge whose requirements the character meets at
// its current rank
func (e *Engine) ApplyEdgeAdvance(c *character.Character, edgeID string) (*character.Character, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}

	out := c.Clone()
	if err := character.GrantEdge(out, edgeID, e.catalog); err != nil {
		return nil, err
	}

	rec := e.newRecord(out, character.AdvanceEdge)
	rec.EdgeID = edgeID
	out.Advances = append(out.Advances, rec)
	return out, nil
}

// ApplyAttributeAdvance raises an attribute one die step. Each rank allows one
// attribute advance; at Legendary they may not be taken back to back.
func (e *Engine) ApplyAttributeAdvance(c *character.Character, attributeID string) (*character.Character, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	attr, err := e.catalog.Attribute(attributeID)
	if err != nil {
		return nil, err
	}

	current, ok := c.Attributes[attributeID]
	if !ok {
		return nil, dnderr.Statef("character has no %s die", attributeID).WithMeta("attribute_id", attributeID)
	}
	if current.IsMaxed() {
		return nil, dnderr.Validationf("%s is already at %s", attr.Name, current).
			WithMeta("attribute_id", attributeID)
	}
	if err := e.checkAttributeAllowance(c); err != nil {
		return nil, err
	}

	out := c.Clone()
	out.Attributes[attributeID] = current.Increment()

	rec := e.newRecord(out, character.AdvanceAttribute)
	rec.AttributeID = attributeID
	out.Advances = append(out.Advances, rec)
	return out, nil
}

// checkAttributeAllowance enforces the attribute advance limit for the rank
// the next advance is taken at
func (e *Engine) checkAttributeAllowance(c *character.Character) error {
	tier := e.catalog.RankFor(c.AdvanceCount())

	if tier >= shared.RankLegendary {
		if last := c.LastAdvance(); last != nil && last.Type == character.AdvanceAttribute {
			return dnderr.Validation("at Legendary rank attribute advances cannot be taken back to back")
		}
		return nil
	}

	for i, rec := range c.Advances {
		// record i was taken with i earlier advances
		if rec.Type == character.AdvanceAttribute && e.catalog.RankFor(i) == tier {
			return dnderr.Validationf("already raised an attribute at %s rank", tier.Title()).
				WithMeta("advance_number", rec.AdvanceNumber)
		}
	}
	return nil
}

// ApplyExpensiveSkillAdvance raises one skill whose die is at least its linked
// attribute's effective die
func (e *Engine) ApplyExpensiveSkillAdvance(c *character.Character, skillID string) (*character.Character, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	ev, err := character.ComputeEffectiveValues(c, e.catalog)
	if err != nil {
		return nil, err
	}
	st, err := e.skillStanding(c, ev, skillID)
	if err != nil {
		return nil, err
	}
	if !st.expensive {
		return nil, dnderr.Validationf("%s is below %s; use a cheap skill advance", st.skill.Name, st.linked).
			WithMeta("skill_id", skillID)
	}

	out := c.Clone()
	raised := st.current.Increment()
	out.SetSkillDie(skillID, &raised)

	rec := e.newRecord(out, character.AdvanceSkillExpensive)
	rec.SkillID1 = skillID
	out.Advances = append(out.Advances, rec)
	return out, nil
}

// ApplyCheapSkillAdvance raises two different skills that are both below
// their linked attributes. Untrained skills qualify and start at d4.
func (e *Engine) ApplyCheapSkillAdvance(c *character.Character, skillID1, skillID2 string) (*character.Character, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	if skillID1 == skillID2 {
		return nil, dnderr.Validation("a cheap skill advance raises two different skills").
			WithMeta("skill_id", skillID1)
	}
	ev, err := character.ComputeEffectiveValues(c, e.catalog)
	if err != nil {
		return nil, err
	}

	out := c.Clone()
	for _, id := range []string{skillID1, skillID2} {
		st, err := e.skillStanding(c, ev, id)
		if err != nil {
			return nil, err
		}
		if st.expensive {
			return nil, dnderr.Validationf("%s is not below %s", st.skill.Name, st.linked).WithMeta("skill_id", id)
		}
		raised := dice.IncrementUntrained(st.current)
		out.SetSkillDie(id, &raised)
	}

	rec := e.newRecord(out, character.AdvanceSkillCheap)
	rec.SkillID1 = skillID1
	rec.SkillID2 = skillID2
	out.Advances = append(out.Advances, rec)
	return out, nil
}

type skillStanding struct {
	skill   *rulebook.Skill
	current *dice.Rank
	linked  dice.Rank

	// expensive is set when the base die is at or above the linked attribute
	expensive bool
}

func (e *Engine) skillStanding(c *character.Character, ev *character.EffectiveValues, skillID string) (*skillStanding, error) {
	skill, err := e.catalog.Skill(skillID)
	if err != nil {
		return nil, err
	}
	linked, ok := ev.AttributeDie(skill.LinkedAttributeID)
	if !ok {
		return nil, dnderr.Statef("skill %s links to missing attribute %s", skillID, skill.LinkedAttributeID).
			WithMeta("skill_id", skillID)
	}

	// skills have no ceiling; past d12 they gain +1 steps
	st := &skillStanding{skill: skill, current: c.SkillDie(skillID), linked: linked}
	if st.current != nil {
		st.expensive = st.current.AtLeast(linked)
	}
	return st, nil
}

// ApplyHindranceAdvance removes a minor hindrance, reduces a major one to its
// minor form, or takes one half of removing a major hindrance outright.
// The first remove_major_half banks the hindrance; a second on the same
// hindrance removes it.
func (e *Engine) ApplyHindranceAdvance(c *character.Character, hindranceID string, action character.HindranceAction) (*character.Character, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	if _, err := character.ParseHindranceAction(string(action)); err != nil || action == "" {
		return nil, dnderr.Validationf("unknown hindrance action %q", action).WithMeta("hindrance_id", hindranceID)
	}
	h, err := e.catalog.Hindrance(hindranceID)
	if err != nil {
		return nil, err
	}
	if !c.HasHindrance(hindranceID) {
		return nil, dnderr.Validationf("does not have %s", h.Name).WithMeta("hindrance_id", hindranceID)
	}

	out := c.Clone()
	switch action {
	case character.HindranceRemoveMinor:
		if h.IsMajor() {
			return nil, dnderr.Validationf("%s is a major hindrance", h.Name).WithMeta("hindrance_id", hindranceID)
		}
		if err := removeHindrance(out, h); err != nil {
			return nil, err
		}

	case character.HindranceReduceMajor:
		if !h.IsMajor() {
			return nil, dnderr.Validationf("%s is not a major hindrance", h.Name).WithMeta("hindrance_id", hindranceID)
		}
		if h.CompanionMinorID == "" {
			return nil, dnderr.Validationf("%s has no minor form", h.Name).WithMeta("hindrance_id", hindranceID)
		}
		if c.IsBanked(hindranceID) {
			return nil, dnderr.Validationf("%s is half removed; finish removing it", h.Name).
				WithMeta("hindrance_id", hindranceID)
		}
		minor, err := e.catalog.Hindrance(h.CompanionMinorID)
		if err != nil {
			return nil, err
		}
		if err := out.Points.BuyOff(h.PointValue - minor.PointValue); err != nil {
			return nil, err
		}
		out.RemoveHindranceID(h.ID)
		out.AddHindranceID(minor.ID)

	case character.HindranceRemoveMajorHalf:
		if !h.IsMajor() {
			return nil, dnderr.Validationf("%s is not a major hindrance", h.Name).WithMeta("hindrance_id", hindranceID)
		}
		if c.IsBanked(hindranceID) {
			if err := removeHindrance(out, h); err != nil {
				return nil, err
			}
		}
	}

	rec := e.newRecord(out, character.AdvanceHindrance)
	rec.HindranceID = hindranceID
	rec.HindranceAction = action
	out.Advances = append(out.Advances, rec)
	return out, nil
}

func removeHindrance(c *character.Character, h *rulebook.Hindrance) error {
	if err := c.Points.BuyOff(h.PointValue); err != nil {
		return err
	}
	c.RemoveHindranceID(h.ID)
	return nil
}

// SelectModifierTarget chooses the target of a selection modifier gained
// through an advance
func (e *Engine) SelectModifierTarget(c *character.Character, modifierID int64, targetID string) (*character.Character, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	out := c.Clone()
	if err := character.ChooseTarget(out, modifierID, targetID, e.catalog); err != nil {
		return nil, err
	}
	return out, nil
}
