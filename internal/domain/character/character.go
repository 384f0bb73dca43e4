package character

import (
	"sort"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
)

// Well known trait IDs used by derived stats
const (
	FightingSkillID  = "fighting"
	VigorAttributeID = "vigor"
)

// Character is the draft state of a player character. Attribute and skill
// dice are the purchased base values; effective values are derived on demand.
type Character struct {
	ID         string                 `json:"id"`
	OwnerID    string                 `json:"owner_id"`
	Name       string                 `json:"name"`
	AncestryID string                 `json:"ancestry_id,omitempty"`
	IsWildCard bool                   `json:"is_wild_card"`
	Status     shared.CharacterStatus `json:"status"`

	Attributes map[string]dice.Rank `json:"attributes"`

	// Skills holds trained skills only; a missing skill is untrained
	Skills map[string]dice.Rank `json:"skills"`

	// Edges may list a repeatable edge more than once
	Edges []string `json:"edges"`

	// Hindrances is kept sorted
	Hindrances []string `json:"hindrances"`

	Powers            []string `json:"powers,omitempty"`
	Gear              []string `json:"gear,omitempty"`
	ArcaneBackgrounds []string `json:"arcane_backgrounds,omitempty"`

	// Selections maps a selection modifier ID to the chosen target ID
	Selections map[int64]string `json:"selections,omitempty"`

	Points   PointLedger     `json:"points"`
	Advances []AdvanceRecord `json:"advances"`
}

// NewCharacter creates a draft with every attribute and core skill at d4
// and the standard starting budget.
func NewCharacter(id, ownerID string, catalog rulebook.Catalog) *Character {
	c := &Character{
		ID:         id,
		OwnerID:    ownerID,
		IsWildCard: true,
		Status:     shared.CharacterStatusDraft,
		Attributes: make(map[string]dice.Rank),
		Skills:     make(map[string]dice.Rank),
		Selections: make(map[int64]string),
		Points:     NewPointLedger(),
	}
	for _, attr := range catalog.Attributes() {
		c.Attributes[attr.ID] = dice.D4()
	}
	for _, skill := range catalog.Skills() {
		if skill.Core {
			c.Skills[skill.ID] = dice.D4()
		}
	}
	return c
}

// SkillDie returns the skill's base die, or nil when untrained
func (c *Character) SkillDie(id string) *dice.Rank {
	r, ok := c.Skills[id]
	if !ok {
		return nil
	}
	return &r
}

// SetSkillDie sets a skill's base die; nil makes it untrained
func (c *Character) SetSkillDie(id string, r *dice.Rank) {
	if r == nil {
		delete(c.Skills, id)
		return
	}
	if c.Skills == nil {
		c.Skills = make(map[string]dice.Rank)
	}
	c.Skills[id] = *r
}

// HasEdge reports whether the character has the edge at least once
func (c *Character) HasEdge(id string) bool {
	return contains(c.Edges, id)
}

// HasHindrance reports whether the character has the hindrance
func (c *Character) HasHindrance(id string) bool {
	return contains(c.Hindrances, id)
}

// HasArcaneBackground reports whether the character has the arcane background
func (c *Character) HasArcaneBackground(id string) bool {
	return contains(c.ArcaneBackgrounds, id)
}

// AddHindranceID inserts a hindrance keeping the list sorted
func (c *Character) AddHindranceID(id string) {
	c.Hindrances = append(c.Hindrances, id)
	sort.Strings(c.Hindrances)
}

// RemoveHindranceID removes a hindrance, reporting whether it was present
func (c *Character) RemoveHindranceID(id string) bool {
	var ok bool
	c.Hindrances, ok = removeOne(c.Hindrances, id)
	return ok
}

// RemoveEdgeID removes the last copy of an edge
func (c *Character) RemoveEdgeID(id string) bool {
	for i := len(c.Edges) - 1; i >= 0; i-- {
		if c.Edges[i] == id {
			c.Edges = append(c.Edges[:i], c.Edges[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveArcaneBackgroundID removes an arcane background
func (c *Character) RemoveArcaneBackgroundID(id string) bool {
	var ok bool
	c.ArcaneBackgrounds, ok = removeOne(c.ArcaneBackgrounds, id)
	return ok
}

// AdvanceCount is the number of advances taken
func (c *Character) AdvanceCount() int {
	return len(c.Advances)
}

// NextAdvanceNumber is the number the next advance will get
func (c *Character) NextAdvanceNumber() int {
	return len(c.Advances) + 1
}

// LastAdvance returns the most recent advance, or nil
func (c *Character) LastAdvance() *AdvanceRecord {
	if len(c.Advances) == 0 {
		return nil
	}
	return &c.Advances[len(c.Advances)-1]
}

// Clone returns a deep copy
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Attributes = cloneDice(c.Attributes)
	out.Skills = cloneDice(c.Skills)
	out.Edges = cloneStrings(c.Edges)
	out.Hindrances = cloneStrings(c.Hindrances)
	out.Powers = cloneStrings(c.Powers)
	out.Gear = cloneStrings(c.Gear)
	out.ArcaneBackgrounds = cloneStrings(c.ArcaneBackgrounds)
	out.Selections = make(map[int64]string, len(c.Selections))
	for k, v := range c.Selections {
		out.Selections[k] = v
	}
	out.Points = c.Points.Clone()
	if c.Advances != nil {
		out.Advances = make([]AdvanceRecord, len(c.Advances))
		copy(out.Advances, c.Advances)
	}
	return &out
}

func cloneDice(in map[string]dice.Rank) map[string]dice.Rank {
	out := make(map[string]dice.Rank, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func removeOne(list []string, id string) ([]string, bool) {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}
