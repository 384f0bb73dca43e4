package advancement

import (
	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/character"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
)

// Options lists what the character's next advance can be
type Options struct {
	AdvanceNumber int

	// Rank is the tier the advance is taken at; NextRank the tier after it
	Rank     shared.RankTier
	NextRank shared.RankTier

	// AttributeBlocked explains why no attribute can be raised this advance
	AttributeBlocked string
	Attributes       []AttributeOption

	ExpensiveSkills []SkillOption
	CheapSkills     []SkillOption
	Hindrances      []HindranceOption
	Edges           []EdgeOption
}

type AttributeOption struct {
	AttributeID string
	Name        string
	Current     dice.Rank
	Next        dice.Rank
	Maxed       bool
}

type SkillOption struct {
	SkillID string
	Name    string

	// Current is nil for an untrained skill
	Current *dice.Rank
	Next    dice.Rank
	Linked  dice.Rank
}

type HindranceOption struct {
	HindranceID string
	Name        string
	Severity    rulebook.Severity
	Actions     []character.HindranceAction

	// Banked is set when half of a major removal has been taken
	Banked bool
}

type EdgeOption struct {
	EdgeID       string
	Name         string
	Category     string
	Requirements string
	Eligible     bool

	// Unmet lists the failing requirements of an ineligible edge
	Unmet []string
}

// GetAdvancementOptions computes the legal choices for the next advance
// without changing the character
func (e *Engine) GetAdvancementOptions(c *character.Character) (*Options, error) {
	if err := requireActive(c); err != nil {
		return nil, err
	}
	ev, ctx, err := character.Snapshot(c, e.catalog)
	if err != nil {
		return nil, err
	}

	opts := &Options{
		AdvanceNumber: c.NextAdvanceNumber(),
		Rank:          e.catalog.RankFor(c.AdvanceCount()),
		NextRank:      e.catalog.RankFor(c.NextAdvanceNumber()),
	}

	if err := e.checkAttributeAllowance(c); err != nil {
		opts.AttributeBlocked = err.Error()
	}
	for _, attr := range e.catalog.Attributes() {
		current, ok := c.Attributes[attr.ID]
		if !ok {
			continue
		}
		opts.Attributes = append(opts.Attributes, AttributeOption{
			AttributeID: attr.ID,
			Name:        attr.Name,
			Current:     current,
			Next:        current.Increment(),
			Maxed:       current.IsMaxed(),
		})
	}

	for _, skill := range e.catalog.Skills() {
		st, err := e.skillStanding(c, ev, skill.ID)
		if err != nil {
			return nil, err
		}
		opt := SkillOption{
			SkillID: skill.ID,
			Name:    skill.Name,
			Current: st.current,
			Next:    dice.IncrementUntrained(st.current),
			Linked:  st.linked,
		}
		if st.expensive {
			opts.ExpensiveSkills = append(opts.ExpensiveSkills, opt)
		} else {
			opts.CheapSkills = append(opts.CheapSkills, opt)
		}
	}

	for _, id := range c.Hindrances {
		h, err := e.catalog.Hindrance(id)
		if err != nil {
			return nil, err
		}
		opts.Hindrances = append(opts.Hindrances, hindranceOption(c, h))
	}

	for _, edge := range e.catalog.Edges() {
		if c.HasEdge(edge.ID) && !edge.Repeatable {
			continue
		}
		if edge.GrantsArcaneBackgroundID != "" && c.HasArcaneBackground(edge.GrantsArcaneBackgroundID) {
			continue
		}
		opt := EdgeOption{
			EdgeID:       edge.ID,
			Name:         edge.Name,
			Category:     edge.Category,
			Requirements: edge.Requirements.Describe(),
		}
		opt.Eligible = edge.Requirements.Evaluate(ctx)
		if !opt.Eligible {
			for _, r := range edge.Requirements.Unmet(ctx) {
				opt.Unmet = append(opt.Unmet, r.String())
			}
		}
		opts.Edges = append(opts.Edges, opt)
	}

	return opts, nil
}

func hindranceOption(c *character.Character, h *rulebook.Hindrance) HindranceOption {
	opt := HindranceOption{
		HindranceID: h.ID,
		Name:        h.Name,
		Severity:    h.Severity,
		Banked:      c.IsBanked(h.ID),
	}
	if !h.IsMajor() {
		opt.Actions = []character.HindranceAction{character.HindranceRemoveMinor}
		return opt
	}
	if h.CompanionMinorID != "" && !opt.Banked {
		opt.Actions = append(opt.Actions, character.HindranceReduceMajor)
	}
	opt.Actions = append(opt.Actions, character.HindranceRemoveMajorHalf)
	return opt
}
