package character

import (
	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/requirements"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/modifiers"
)

// EffectiveValues is a character's traits and derived stats after modifiers
type EffectiveValues struct {
	Attributes map[string]modifiers.EffectiveDie
	Skills     map[string]modifiers.EffectiveDie
	Derived    map[modifiers.DerivedStat]modifiers.EffectiveStat

	// Pending lists selection modifiers still waiting for a target
	Pending []modifiers.Modifier
}

// AttributeDie returns the effective die of an attribute
func (ev *EffectiveValues) AttributeDie(id string) (dice.Rank, bool) {
	e, ok := ev.Attributes[id]
	if !ok || e.Die == nil {
		return dice.Rank{}, false
	}
	return *e.Die, true
}

// SkillDie returns the effective die of a skill, nil when untrained
func (ev *EffectiveValues) SkillDie(id string) *dice.Rank {
	e, ok := ev.Skills[id]
	if !ok {
		return nil
	}
	return e.Die
}

// Modifiers collects every modifier that applies to the character, with
// chosen selections resolved.
func Modifiers(c *Character, catalog rulebook.Catalog) ([]modifiers.Modifier, error) {
	var mods []modifiers.Modifier

	if c.AncestryID != "" {
		a, err := catalog.Ancestry(c.AncestryID)
		if err != nil {
			return nil, err
		}
		mods = append(mods, a.Modifiers...)
	}
	for _, id := range c.Edges {
		e, err := catalog.Edge(id)
		if err != nil {
			return nil, err
		}
		mods = append(mods, e.Modifiers...)
	}
	for _, id := range c.Hindrances {
		h, err := catalog.Hindrance(id)
		if err != nil {
			return nil, err
		}
		mods = append(mods, h.Modifiers...)
	}
	for _, id := range c.Powers {
		p, err := catalog.Power(id)
		if err != nil {
			return nil, err
		}
		mods = append(mods, p.Modifiers...)
	}
	for _, id := range c.Gear {
		g, err := catalog.Gear(id)
		if err != nil {
			return nil, err
		}
		mods = append(mods, g.Modifiers...)
	}

	return mods, nil
}

// ComputeEffectiveValues derives effective dice and stats from the base values.
// It always starts from the purchased dice so repeated calls agree.
func ComputeEffectiveValues(c *Character, catalog rulebook.Catalog) (*EffectiveValues, error) {
	raw, err := Modifiers(c, catalog)
	if err != nil {
		return nil, err
	}
	mods := modifiers.Resolve(raw, c.Selections)

	ev := &EffectiveValues{
		Attributes: make(map[string]modifiers.EffectiveDie),
		Skills:     make(map[string]modifiers.EffectiveDie),
		Pending:    modifiers.Pending(raw, c.Selections),
	}

	for id, base := range c.Attributes {
		b := base
		ev.Attributes[id] = modifiers.ComputeDie(modifiers.Target{Type: modifiers.TargetAttribute, ID: id}, &b, mods)
	}

	skillIDs := make(map[string]bool)
	for _, s := range catalog.Skills() {
		skillIDs[s.ID] = true
	}
	for id := range c.Skills {
		skillIDs[id] = true
	}
	for id := range skillIDs {
		ev.Skills[id] = modifiers.ComputeDie(modifiers.Target{Type: modifiers.TargetSkill, ID: id}, c.SkillDie(id), mods)
	}

	var vigor *dice.Rank
	if d, ok := ev.AttributeDie(VigorAttributeID); ok {
		vigor = &d
	}
	ev.Derived = modifiers.ComputeDerived(modifiers.DerivedInputs{
		Fighting: ev.SkillDie(FightingSkillID),
		Vigor:    vigor,
	}, mods)

	return ev, nil
}

// BuildContext snapshots the character for requirement checks
func BuildContext(c *Character, ev *EffectiveValues, catalog rulebook.Catalog) (*requirements.Context, error) {
	ctx := requirements.NewContext()

	for id := range ev.Attributes {
		if d, ok := ev.AttributeDie(id); ok {
			ctx.AttributeDice[id] = d
		}
	}
	for id := range ev.Skills {
		if d := ev.SkillDie(id); d != nil {
			ctx.SkillDice[id] = *d
		}
	}
	for _, id := range c.Edges {
		ctx.EdgeIDs[id] = true
	}
	for _, id := range c.Hindrances {
		ctx.HindranceIDs[id] = true
	}
	for _, id := range c.ArcaneBackgrounds {
		ab, err := catalog.ArcaneBackground(id)
		if err != nil {
			return nil, err
		}
		ctx.ArcaneBackgroundIDs[id] = true
		ctx.ArcaneSkills[id] = ab.ArcaneSkillID
	}
	ctx.RankTier = catalog.RankFor(c.AdvanceCount())
	ctx.IsWildCard = c.IsWildCard

	return ctx, nil
}

// Snapshot computes effective values and the requirement context together
func Snapshot(c *Character, catalog rulebook.Catalog) (*EffectiveValues, *requirements.Context, error) {
	ev, err := ComputeEffectiveValues(c, catalog)
	if err != nil {
		return nil, nil, err
	}
	ctx, err := BuildContext(c, ev, catalog)
	if err != nil {
		return nil, nil, err
	}
	return ev, ctx, nil
}
