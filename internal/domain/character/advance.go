package character

import (
	"time"

	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// AdvanceType is the kind of change an advance makes
type AdvanceType string

const (
	AdvanceEdge           AdvanceType = "edge"
	AdvanceAttribute      AdvanceType = "attribute"
	AdvanceSkillExpensive AdvanceType = "skill_expensive"
	AdvanceSkillCheap     AdvanceType = "skill_cheap"
	AdvanceHindrance      AdvanceType = "hindrance"
)

// HindranceAction is how an advance deals with a hindrance
type HindranceAction string

const (
	HindranceRemoveMinor     HindranceAction = "remove_minor"
	HindranceReduceMajor     HindranceAction = "reduce_major"
	HindranceRemoveMajorHalf HindranceAction = "remove_major_half"
)

// AdvanceRecord is one entry of the append-only advance history. Its
// persisted columns are a contract for other tooling; AdvanceNumber order is
// authoritative, not the timestamps.
type AdvanceRecord struct {
	ID              string          `json:"id"`
	CharacterID     string          `json:"character_id"`
	AdvanceNumber   int             `json:"advance_number"`
	Type            AdvanceType     `json:"advance_type"`
	EdgeID          string          `json:"edge_id,omitempty"`
	AttributeID     string          `json:"attribute_id,omitempty"`
	SkillID1        string          `json:"skill_id_1,omitempty"`
	SkillID2        string          `json:"skill_id_2,omitempty"`
	HindranceID     string          `json:"hindrance_id,omitempty"`
	HindranceAction HindranceAction `json:"hindrance_action,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ParseAdvanceType decodes a persisted advance type
func ParseAdvanceType(s string) (AdvanceType, error) {
	switch t := AdvanceType(s); t {
	case AdvanceEdge, AdvanceAttribute, AdvanceSkillExpensive, AdvanceSkillCheap, AdvanceHindrance:
		return t, nil
	}
	return "", dnderr.Statef("unknown advance type %q", s)
}

// ParseHindranceAction decodes a hindrance action. An empty string is allowed
// and means no action.
func ParseHindranceAction(s string) (HindranceAction, error) {
	switch a := HindranceAction(s); a {
	case "", HindranceRemoveMinor, HindranceReduceMajor, HindranceRemoveMajorHalf:
		return a, nil
	}
	return "", dnderr.Validationf("unknown hindrance action %q", s)
}

// PriorHalfRemovals counts remove_major_half records for a hindrance in the
// first n advances of the history.
func PriorHalfRemovals(history []AdvanceRecord, n int, hindranceID string) int {
	if n > len(history) {
		n = len(history)
	}
	count := 0
	for _, rec := range history[:n] {
		if rec.Type == AdvanceHindrance && rec.HindranceAction == HindranceRemoveMajorHalf && rec.HindranceID == hindranceID {
			count++
		}
	}
	return count
}

// IsBanked reports whether a hindrance has an unmatched half removal waiting
// for its second advance.
func (c *Character) IsBanked(hindranceID string) bool {
	return PriorHalfRemovals(c.Advances, len(c.Advances), hindranceID)%2 == 1
}
