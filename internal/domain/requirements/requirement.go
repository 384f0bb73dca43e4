package requirements

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// Type identifies what a leaf requirement checks
type Type string

const (
	TypeAttribute        Type = "attribute"
	TypeSkill            Type = "skill"
	TypeRank             Type = "rank"
	TypeArcaneSkill      Type = "arcane_skill"
	TypeEdge             Type = "edge"
	TypeArcaneBackground Type = "arcane_background"
	TypeWildCard         Type = "wild_card"
	TypeDescription      Type = "description"
)

var knownTypes = map[Type]bool{
	TypeAttribute:        true,
	TypeSkill:            true,
	TypeRank:             true,
	TypeArcaneSkill:      true,
	TypeEdge:             true,
	TypeArcaneBackground: true,
	TypeWildCard:         true,
	TypeDescription:      true,
}

// untrainedValue is the persisted value meaning "any skill level, even untrained, passes"
const untrainedValue = "untrained"

// Requirement is a single leaf check. The persisted string value has already
// been decoded into the typed field the requirement type uses.
type Requirement struct {
	Type     Type
	TargetID string

	// MinDie is the threshold for attribute, skill and arcane skill checks
	MinDie dice.Rank

	// AllowUntrained makes a skill check pass regardless of training
	AllowUntrained bool

	MinTier  shared.RankTier
	WildCard bool

	// Text is the free-form wording of a description requirement
	Text string
}

// Record is the persisted shape of a leaf requirement
type Record struct {
	Type     string `yaml:"type" json:"type"`
	TargetID string `yaml:"target_id,omitempty" json:"target_id,omitempty"`
	Value    string `yaml:"value,omitempty" json:"value,omitempty"`
}

// AttributeAtLeast requires an attribute die of at least min
func AttributeAtLeast(attributeID string, min dice.Rank) Requirement {
	return Requirement{Type: TypeAttribute, TargetID: attributeID, MinDie: min}
}

// SkillAtLeast requires a trained skill die of at least min
func SkillAtLeast(skillID string, min dice.Rank) Requirement {
	return Requirement{Type: TypeSkill, TargetID: skillID, MinDie: min}
}

// SkillUntrainedAllowed always passes; it documents that the skill is used untrained
func SkillUntrainedAllowed(skillID string) Requirement {
	return Requirement{Type: TypeSkill, TargetID: skillID, AllowUntrained: true}
}

// RankAtLeast requires a minimum rank tier
func RankAtLeast(tier shared.RankTier) Requirement {
	return Requirement{Type: TypeRank, MinTier: tier}
}

// HasEdge requires the character to have an edge
func HasEdge(edgeID string) Requirement {
	return Requirement{Type: TypeEdge, TargetID: edgeID}
}

// HasArcaneBackground requires a specific arcane background, or any when id is empty
func HasArcaneBackground(id string) Requirement {
	return Requirement{Type: TypeArcaneBackground, TargetID: id}
}

// ArcaneSkillAtLeast requires the skill linked to an arcane background to reach min.
// An empty arcane background ID checks every arcane background the character has.
func ArcaneSkillAtLeast(arcaneBackgroundID string, min dice.Rank) Requirement {
	return Requirement{Type: TypeArcaneSkill, TargetID: arcaneBackgroundID, MinDie: min}
}

// IsWildCard requires the character's wild card flag to equal want
func IsWildCard(want bool) Requirement {
	return Requirement{Type: TypeWildCard, WildCard: want}
}

// Description is an informational requirement that always passes
func Description(text string) Requirement {
	return Requirement{Type: TypeDescription, Text: text}
}

// Evaluate checks the leaf against the context
func (r Requirement) Evaluate(ctx *Context) bool {
	if ctx == nil {
		ctx = NewContext()
	}

	switch r.Type {
	case TypeAttribute:
		die, ok := ctx.AttributeDice[r.TargetID]
		return ok && die.AtLeast(r.MinDie)
	case TypeSkill:
		if r.AllowUntrained {
			return true
		}
		die, ok := ctx.SkillDice[r.TargetID]
		return ok && die.AtLeast(r.MinDie)
	case TypeRank:
		return ctx.RankTier >= r.MinTier
	case TypeEdge:
		return ctx.HasEdge(r.TargetID)
	case TypeArcaneBackground:
		return ctx.HasArcaneBackground(r.TargetID)
	case TypeArcaneSkill:
		return r.evaluateArcaneSkill(ctx)
	case TypeWildCard:
		return ctx.IsWildCard == r.WildCard
	case TypeDescription:
		return true
	}
	return false
}

func (r Requirement) evaluateArcaneSkill(ctx *Context) bool {
	for backgroundID, skillID := range ctx.ArcaneSkills {
		if r.TargetID != "" && backgroundID != r.TargetID {
			continue
		}
		if die, ok := ctx.SkillDice[skillID]; ok && die.AtLeast(r.MinDie) {
			return true
		}
	}
	return false
}

func (r Requirement) String() string {
	switch r.Type {
	case TypeAttribute:
		return fmt.Sprintf("%s %s+", r.TargetID, r.MinDie)
	case TypeSkill:
		if r.AllowUntrained {
			return fmt.Sprintf("%s (untrained allowed)", r.TargetID)
		}
		return fmt.Sprintf("%s %s+", r.TargetID, r.MinDie)
	case TypeRank:
		return r.MinTier.Title()
	case TypeEdge:
		return "Edge: " + r.TargetID
	case TypeArcaneBackground:
		if r.TargetID == "" {
			return "Any Arcane Background"
		}
		return "Arcane Background: " + r.TargetID
	case TypeArcaneSkill:
		return fmt.Sprintf("Arcane skill %s+", r.MinDie)
	case TypeWildCard:
		if r.WildCard {
			return "Wild Card"
		}
		return "Extra"
	case TypeDescription:
		return r.Text
	}
	return string(r.Type)
}

// DecodeOptions controls how unexpected persisted values are handled
type DecodeOptions struct {
	// Lenient falls back to an informational description requirement for unknown
	// requirement types instead of failing. The fallback is logged.
	Lenient bool
}

// Decode turns a persisted record into a typed requirement
func Decode(rec Record, opts DecodeOptions) (Requirement, error) {
	reqType := Type(strings.ToLower(strings.TrimSpace(rec.Type)))
	if !knownTypes[reqType] {
		if !opts.Lenient {
			return Requirement{}, dnderr.Statef("unknown requirement type %q", rec.Type).
				WithMeta("requirement_type", rec.Type)
		}
		log.Printf("RequirementDecoder: unknown requirement type %q (target %q), treating as description", rec.Type, rec.TargetID)
		return Description(strings.TrimSpace(rec.Type + " " + rec.TargetID + " " + rec.Value)), nil
	}

	req := Requirement{Type: reqType, TargetID: rec.TargetID}
	value := strings.TrimSpace(rec.Value)

	switch reqType {
	case TypeAttribute, TypeArcaneSkill:
		die, err := dice.Parse(value)
		if err != nil {
			return Requirement{}, dnderr.WrapWithCode(err, dnderr.CodeState, fmt.Sprintf("decode %s requirement", reqType))
		}
		req.MinDie = die
	case TypeSkill:
		if value == "" || strings.EqualFold(value, untrainedValue) {
			req.AllowUntrained = true
			break
		}
		die, err := dice.Parse(value)
		if err != nil {
			return Requirement{}, dnderr.WrapWithCode(err, dnderr.CodeState, "decode skill requirement")
		}
		req.MinDie = die
	case TypeRank:
		tier, err := shared.ParseRankTier(value)
		if err != nil {
			return Requirement{}, dnderr.WrapWithCode(err, dnderr.CodeState, "decode rank requirement")
		}
		req.MinTier = tier
	case TypeWildCard:
		want, err := parseFlag(value)
		if err != nil {
			return Requirement{}, dnderr.WrapWithCode(err, dnderr.CodeState, "decode wild card requirement")
		}
		req.WildCard = want
	case TypeDescription:
		req.Text = value
	}

	return req, nil
}

// parseFlag reads the wild card value; any non-zero number means true
func parseFlag(value string) (bool, error) {
	if value == "" {
		return true, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n != 0, nil
	}
	return strconv.ParseBool(value)
}
