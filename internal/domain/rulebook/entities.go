package rulebook

import (
	"github.com/KirkDiggler/savage-character-engine/internal/domain/requirements"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	"github.com/KirkDiggler/savage-character-engine/internal/modifiers"
)

// Attribute is one of the character's core traits (Agility, Smarts, ...)
type Attribute struct {
	ID   string
	Name string
}

// Skill is a trained trait linked to an attribute
type Skill struct {
	ID                string
	Name              string
	LinkedAttributeID string

	// Core skills start at d4 for every new character
	Core bool
}

// Severity is how heavy a hindrance is
type Severity string

const (
	SeverityMinor Severity = "minor"
	SeverityMajor Severity = "major"
)

// Hindrance is a flaw that earns hindrance points when taken
type Hindrance struct {
	ID         string
	Name       string
	Severity   Severity
	PointValue int

	// CompanionMinorID is the minor version a major hindrance is reduced to
	CompanionMinorID string

	Description string
	Modifiers   []modifiers.Modifier
}

// IsMajor reports whether the hindrance is a major one
func (h *Hindrance) IsMajor() bool {
	return h.Severity == SeverityMajor
}

// Edge is a special ability bought with an advance or edge points
type Edge struct {
	ID           string
	Name         string
	Category     string
	Description  string
	Repeatable   bool
	Requirements *requirements.Expression
	Modifiers    []modifiers.Modifier

	// GrantsArcaneBackgroundID is set on arcane background edges
	GrantsArcaneBackgroundID string
}

// Power is an arcane effect
type Power struct {
	ID           string
	Name         string
	PowerPoints  int
	MinRank      shared.RankTier
	Requirements *requirements.Expression
	Modifiers    []modifiers.Modifier
}

// ArcaneBackground is a source of powers with its own arcane skill
type ArcaneBackground struct {
	ID             string
	Name           string
	ArcaneSkillID  string
	StartingPowers int
	PowerPoints    int
	Requirements   *requirements.Expression
}

// Ancestry is a character's people
type Ancestry struct {
	ID           string
	Name         string
	Requirements *requirements.Expression
	Modifiers    []modifiers.Modifier
}

// GearContent is an item inside a pack
type GearContent struct {
	GearID   string
	Quantity int
}

// Gear is a piece of equipment, possibly a pack of other gear
type Gear struct {
	ID           string
	Name         string
	Cost         int
	Weight       float64
	Contents     []GearContent
	Requirements *requirements.Expression
	Modifiers    []modifiers.Modifier
}

// IsPack reports whether the gear contains other gear
func (g *Gear) IsPack() bool {
	return len(g.Contents) > 0
}

// Rank is one row of the rank table
type Rank struct {
	Tier        shared.RankTier
	Name        string
	MinAdvances int
}
