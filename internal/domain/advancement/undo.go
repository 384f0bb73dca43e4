package advancement

import (
	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// UndoAdvance retracts the most recent advance and reverses its effect.
// A history that no longer matches the character is a State error.
func (e *Engine) UndoAdvance(c *character.Character) (*character.Character, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	last := c.LastAdvance()
	if last == nil {
		return nil, dnderr.NotFound("no advances to undo").WithMeta("character_id", c.ID)
	}
	rec := *last

	out := c.Clone()
	out.Advances = out.Advances[:len(out.Advances)-1]

	var err error
	switch rec.Type {
	case character.AdvanceEdge:
		err = character.RevokeEdge(out, rec.EdgeID, e.catalog)
		if dnderr.IsValidation(err) {
			err = dnderr.WrapWithCode(err, dnderr.CodeState, "edge advance does not match character")
		}
		if err == nil {
			err = character.PruneSelections(out, e.catalog)
		}
	case character.AdvanceAttribute:
		err = undoAttribute(out, rec.AttributeID)
	case character.AdvanceSkillExpensive:
		err = undoSkill(out, rec.SkillID1)
	case character.AdvanceSkillCheap:
		if err = undoSkill(out, rec.SkillID1); err == nil {
			err = undoSkill(out, rec.SkillID2)
		}
	case character.AdvanceHindrance:
		err = e.undoHindrance(out, rec)
	default:
		err = dnderr.Statef("unknown advance type %q", rec.Type)
	}
	if err != nil {
		return nil, dnderr.Wrapf(err, "undoing advance %d", rec.AdvanceNumber).
			WithMeta("advance_number", rec.AdvanceNumber)
	}
	return out, nil
}

func undoAttribute(c *character.Character, attributeID string) error {
	current, ok := c.Attributes[attributeID]
	if !ok {
		return dnderr.Statef("character has no %s die", attributeID)
	}
	lowered, ok := current.Decrement()
	if !ok {
		return dnderr.Statef("%s is already at d4", attributeID)
	}
	c.Attributes[attributeID] = lowered
	return nil
}

// undoSkill steps a skill down; a d4 left by an advance came from untrained
func undoSkill(c *character.Character, skillID string) error {
	current := c.SkillDie(skillID)
	if current == nil {
		return dnderr.Statef("%s is not trained", skillID)
	}
	c.SetSkillDie(skillID, dice.DecrementToUntrained(*current))
	return nil
}

// undoHindrance reverses a hindrance advance. c already has the record popped.
func (e *Engine) undoHindrance(c *character.Character, rec character.AdvanceRecord) error {
	h, err := e.catalog.Hindrance(rec.HindranceID)
	if err != nil {
		return err
	}

	switch rec.HindranceAction {
	case character.HindranceRemoveMinor:
		return restoreHindrance(c, h.ID, h.PointValue)

	case character.HindranceReduceMajor:
		minor, err := e.catalog.Hindrance(h.CompanionMinorID)
		if err != nil {
			return err
		}
		if !c.RemoveHindranceID(minor.ID) {
			return dnderr.Statef("%s is missing", minor.ID)
		}
		return restoreHindrance(c, h.ID, h.PointValue-minor.PointValue)

	case character.HindranceRemoveMajorHalf:
		if !c.IsBanked(h.ID) {
			// the popped record only banked the hindrance
			return nil
		}
		return restoreHindrance(c, h.ID, h.PointValue)
	}
	return dnderr.Statef("unknown hindrance action %q", rec.HindranceAction)
}

func restoreHindrance(c *character.Character, hindranceID string, points int) error {
	if c.HasHindrance(hindranceID) {
		return dnderr.Statef("%s is already present", hindranceID)
	}
	if err := c.Points.RestoreBoughtOff(points); err != nil {
		return err
	}
	c.AddHindranceID(hindranceID)
	return nil
}
