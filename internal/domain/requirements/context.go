package requirements

import (
	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
)

// Context is a read-only snapshot of the parts of a character that
// requirements can test. It is rebuilt from the draft after every change
// and never persisted.
type Context struct {
	// AttributeDice holds effective attribute dice by attribute ID
	AttributeDice map[string]dice.Rank

	// SkillDice holds effective skill dice; untrained skills are absent
	SkillDice map[string]dice.Rank

	EdgeIDs             map[string]bool
	HindranceIDs        map[string]bool
	RankTier            shared.RankTier
	ArcaneBackgroundIDs map[string]bool

	// ArcaneSkills maps each of the character's arcane backgrounds to its linked skill
	ArcaneSkills map[string]string

	IsWildCard bool
}

// NewContext returns an empty context with all maps allocated
func NewContext() *Context {
	return &Context{
		AttributeDice:       make(map[string]dice.Rank),
		SkillDice:           make(map[string]dice.Rank),
		EdgeIDs:             make(map[string]bool),
		HindranceIDs:        make(map[string]bool),
		ArcaneBackgroundIDs: make(map[string]bool),
		ArcaneSkills:        make(map[string]string),
	}
}

// HasEdge reports whether the character has the edge
func (c *Context) HasEdge(id string) bool {
	return c != nil && c.EdgeIDs[id]
}

// HasArcaneBackground reports whether the character has the given arcane
// background, or any arcane background when id is empty.
func (c *Context) HasArcaneBackground(id string) bool {
	if c == nil {
		return false
	}
	if id == "" {
		return len(c.ArcaneBackgroundIDs) > 0
	}
	return c.ArcaneBackgroundIDs[id]
}
