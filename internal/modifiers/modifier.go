package modifiers

import (
	"log"
	"strings"

	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// SourceType defines where a modifier comes from
type SourceType string

const (
	SourceTypeEdge      SourceType = "edge"
	SourceTypeHindrance SourceType = "hindrance"
	SourceTypeAncestry  SourceType = "ancestry"
	SourceTypeGear      SourceType = "gear"
	SourceTypePower     SourceType = "power"
)

// TargetType is the kind of value a modifier changes
type TargetType string

const (
	TargetAttribute   TargetType = "attribute"
	TargetSkill       TargetType = "skill"
	TargetDerivedStat TargetType = "derived_stat"
	TargetEdge        TargetType = "edge"
	TargetPower       TargetType = "power"
	TargetOther       TargetType = "other"
)

// ValueType says how a modifier's value is applied
type ValueType string

const (
	// ValueDieIncrement steps the target die once up the ladder (once down for a negative value)
	ValueDieIncrement ValueType = "die_increment"

	// ValueRollBonus adds to rolls made with the target without changing its die
	ValueRollBonus ValueType = "roll_bonus"

	// ValueFlatBonus adds directly to a number such as Pace or Toughness
	ValueFlatBonus ValueType = "flat_bonus"

	// ValueDescription is informational only
	ValueDescription ValueType = "description"

	// ValueSelection needs the player to choose a target before it means anything
	ValueSelection ValueType = "selection"
)

// Modifier is a tagged effect attached to an edge, hindrance, ancestry, gear or power
type Modifier struct {
	ID          int64
	SourceType  SourceType
	SourceID    string
	TargetType  TargetType
	TargetID    string
	ValueType   ValueType
	Value       int
	Description string

	// ResolvesTo is the value type a selection becomes once its target is chosen.
	// Empty means die_increment.
	ResolvesTo ValueType
}

// Target identifies a value that modifiers can apply to
type Target struct {
	Type TargetType
	ID   string
}

// Target returns what the modifier applies to
func (m Modifier) Target() Target {
	return Target{Type: m.TargetType, ID: m.TargetID}
}

// IsAutomatic reports whether the compositor applies the modifier on its own
func (m Modifier) IsAutomatic() bool {
	switch m.ValueType {
	case ValueDieIncrement, ValueRollBonus, ValueFlatBonus:
		return true
	}
	return false
}

// Record is the persisted shape of a modifier, with enums still as strings
type Record struct {
	ID          int64  `yaml:"id" json:"id"`
	SourceType  string `yaml:"source_type" json:"source_type"`
	SourceID    string `yaml:"source_id" json:"source_id"`
	TargetType  string `yaml:"target_type" json:"target_type"`
	TargetID    string `yaml:"target_id,omitempty" json:"target_id,omitempty"`
	ValueType   string `yaml:"value_type" json:"value_type"`
	Value       int    `yaml:"value,omitempty" json:"value,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	ResolvesTo  string `yaml:"resolves_to,omitempty" json:"resolves_to,omitempty"`
}

var (
	knownSources = map[SourceType]bool{
		SourceTypeEdge: true, SourceTypeHindrance: true, SourceTypeAncestry: true,
		SourceTypeGear: true, SourceTypePower: true,
	}
	knownTargets = map[TargetType]bool{
		TargetAttribute: true, TargetSkill: true, TargetDerivedStat: true,
		TargetEdge: true, TargetPower: true, TargetOther: true,
	}
	knownValues = map[ValueType]bool{
		ValueDieIncrement: true, ValueRollBonus: true, ValueFlatBonus: true,
		ValueDescription: true, ValueSelection: true,
	}
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Decode converts a persisted record. Unknown source and target types are
// always errors; an unknown value type fails unless lenient, in which case the
// modifier degrades to an informational description and the fallback is logged.
func Decode(rec Record, lenient bool) (Modifier, error) {
	source := SourceType(normalize(rec.SourceType))
	if !knownSources[source] {
		return Modifier{}, dnderr.Statef("modifier %d has unknown source type %q", rec.ID, rec.SourceType).
			WithMeta("modifier_id", rec.ID)
	}

	target := TargetType(normalize(rec.TargetType))
	if !knownTargets[target] {
		return Modifier{}, dnderr.Statef("modifier %d has unknown target type %q", rec.ID, rec.TargetType).
			WithMeta("modifier_id", rec.ID)
	}

	value := ValueType(normalize(rec.ValueType))
	if !knownValues[value] {
		if !lenient {
			return Modifier{}, dnderr.Statef("modifier %d has unknown value type %q", rec.ID, rec.ValueType).
				WithMeta("modifier_id", rec.ID)
		}
		log.Printf("ModifierDecoder: modifier %d has unknown value type %q, treating as description", rec.ID, rec.ValueType)
		value = ValueDescription
	}

	resolvesTo := ValueType(normalize(rec.ResolvesTo))
	if resolvesTo != "" && !knownValues[resolvesTo] {
		return Modifier{}, dnderr.Statef("modifier %d resolves to unknown value type %q", rec.ID, rec.ResolvesTo).
			WithMeta("modifier_id", rec.ID)
	}

	return Modifier{
		ID:          rec.ID,
		SourceType:  source,
		SourceID:    rec.SourceID,
		TargetType:  target,
		TargetID:    rec.TargetID,
		ValueType:   value,
		Value:       rec.Value,
		Description: rec.Description,
		ResolvesTo:  resolvesTo,
	}, nil
}
