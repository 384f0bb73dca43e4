package character

import (
	"strings"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/requirements"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/modifiers"
)

// Creator applies point-buy changes to a character still in creation.
// Every operation works on a copy and returns it; the input is never changed.
type Creator struct {
	catalog rulebook.Catalog
}

// NewCreator creates a Creator for a ruleset
func NewCreator(catalog rulebook.Catalog) *Creator {
	if catalog == nil {
		panic("catalog is required")
	}
	return &Creator{catalog: catalog}
}

func requireDraft(c *Character) error {
	if c == nil {
		return dnderr.State("no character in progress")
	}
	if c.Status != shared.CharacterStatusDraft {
		return dnderr.Validation("character creation is already finished").WithMeta("character_id", c.ID)
	}
	return nil
}

// SetConcept names the character and picks an ancestry
func (cr *Creator) SetConcept(c *Character, name, ancestryID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dnderr.Validation("name is required")
	}

	out := c.Clone()
	out.Name = name

	if ancestryID != "" && ancestryID != c.AncestryID {
		ancestry, err := cr.catalog.Ancestry(ancestryID)
		if err != nil {
			return nil, err
		}
		_, ctx, err := Snapshot(out, cr.catalog)
		if err != nil {
			return nil, err
		}
		if err := checkRequirements("ancestry", ancestry.Name, ancestry.Requirements, ctx); err != nil {
			return nil, err.WithMeta("ancestry_id", ancestryID)
		}
		out.AncestryID = ancestryID
		if err := PruneSelections(out, cr.catalog); err != nil {
			return nil, err
		}
	}

	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// RaiseAttribute buys one die step of an attribute for one attribute point
func (cr *Creator) RaiseAttribute(c *Character, attributeID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	if _, err := cr.catalog.Attribute(attributeID); err != nil {
		return nil, err
	}

	out := c.Clone()
	current := out.Attributes[attributeID]
	if current.IsMaxed() {
		return nil, dnderr.Validationf("%s is already at %s", attributeID, current).
			WithMeta("attribute_id", attributeID)
	}
	out.Attributes[attributeID] = current.Increment()

	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// LowerAttribute sells back one die step of an attribute
func (cr *Creator) LowerAttribute(c *Character, attributeID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	if _, err := cr.catalog.Attribute(attributeID); err != nil {
		return nil, err
	}

	out := c.Clone()
	lowered, ok := out.Attributes[attributeID].Decrement()
	if !ok {
		return nil, dnderr.Validationf("%s cannot go below d4", attributeID).WithMeta("attribute_id", attributeID)
	}
	out.Attributes[attributeID] = lowered

	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// RaiseSkill buys one die step of a skill. Steps up to the linked attribute
// cost one skill point, steps above it cost two.
func (cr *Creator) RaiseSkill(c *Character, skillID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	if _, err := cr.catalog.Skill(skillID); err != nil {
		return nil, err
	}

	out := c.Clone()
	current := out.SkillDie(skillID)
	if current != nil && current.IsMaxed() {
		return nil, dnderr.Validationf("%s is already at %s", skillID, current).WithMeta("skill_id", skillID)
	}
	raised := dice.IncrementUntrained(current)
	out.SetSkillDie(skillID, &raised)

	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// LowerSkill sells back one die step of a skill. Core skills stop at d4,
// others drop back to untrained.
func (cr *Creator) LowerSkill(c *Character, skillID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	skill, err := cr.catalog.Skill(skillID)
	if err != nil {
		return nil, err
	}

	out := c.Clone()
	current := out.SkillDie(skillID)
	if current == nil {
		return nil, dnderr.Validationf("%s is not trained", skillID).WithMeta("skill_id", skillID)
	}
	lowered := dice.DecrementToUntrained(*current)
	if lowered == nil && skill.Core {
		return nil, dnderr.Validationf("%s is a core skill and cannot go below d4", skillID).
			WithMeta("skill_id", skillID)
	}
	out.SetSkillDie(skillID, lowered)

	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddEdge takes an edge for one edge point
func (cr *Creator) AddEdge(c *Character, edgeID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	out := c.Clone()
	if err := GrantEdge(out, edgeID, cr.catalog); err != nil {
		return nil, err
	}
	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveEdge gives an edge back
func (cr *Creator) RemoveEdge(c *Character, edgeID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	out := c.Clone()
	if err := RevokeEdge(out, edgeID, cr.catalog); err != nil {
		return nil, err
	}
	if err := PruneSelections(out, cr.catalog); err != nil {
		return nil, err
	}
	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// GrantEdge checks an edge against the character and adds it, along with any
// arcane background it grants. The character is changed in place.
func GrantEdge(c *Character, edgeID string, catalog rulebook.Catalog) error {
	edge, err := catalog.Edge(edgeID)
	if err != nil {
		return err
	}
	if c.HasEdge(edgeID) && !edge.Repeatable {
		return dnderr.Validationf("already has %s", edge.Name).WithMeta("edge_id", edgeID)
	}
	if edge.GrantsArcaneBackgroundID != "" && c.HasArcaneBackground(edge.GrantsArcaneBackgroundID) {
		return dnderr.Validationf("already has the %s arcane background", edge.GrantsArcaneBackgroundID).
			WithMeta("edge_id", edgeID)
	}

	_, ctx, err := Snapshot(c, catalog)
	if err != nil {
		return err
	}
	if err := checkRequirements("edge", edge.Name, edge.Requirements, ctx); err != nil {
		return err.WithMeta("edge_id", edgeID)
	}

	c.Edges = append(c.Edges, edgeID)
	if edge.GrantsArcaneBackgroundID != "" {
		c.ArcaneBackgrounds = append(c.ArcaneBackgrounds, edge.GrantsArcaneBackgroundID)
	}
	return nil
}

// RevokeEdge removes the last copy of an edge and the arcane background it granted
func RevokeEdge(c *Character, edgeID string, catalog rulebook.Catalog) error {
	edge, err := catalog.Edge(edgeID)
	if err != nil {
		return err
	}
	if !c.RemoveEdgeID(edgeID) {
		return dnderr.Validationf("does not have %s", edge.Name).WithMeta("edge_id", edgeID)
	}
	if edge.GrantsArcaneBackgroundID != "" && !c.HasEdge(edgeID) {
		c.RemoveArcaneBackgroundID(edge.GrantsArcaneBackgroundID)
	}
	return nil
}

// AddHindrance takes a hindrance and earns its points
func (cr *Creator) AddHindrance(c *Character, hindranceID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	h, err := cr.catalog.Hindrance(hindranceID)
	if err != nil {
		return nil, err
	}
	if c.HasHindrance(hindranceID) {
		return nil, dnderr.Validationf("already has %s", h.Name).WithMeta("hindrance_id", hindranceID)
	}
	if conflict := cr.companionOf(c, h); conflict != "" {
		return nil, dnderr.Validationf("%s cannot be taken together with %s", h.Name, conflict).
			WithMeta("hindrance_id", hindranceID)
	}

	out := c.Clone()
	if err := out.Points.Earn(PointsHindrance, h.PointValue); err != nil {
		return nil, err
	}
	out.AddHindranceID(hindranceID)
	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// companionOf returns a hindrance the character has that is the other
// severity of h, or ""
func (cr *Creator) companionOf(c *Character, h *rulebook.Hindrance) string {
	if h.CompanionMinorID != "" && c.HasHindrance(h.CompanionMinorID) {
		return h.CompanionMinorID
	}
	for _, id := range c.Hindrances {
		other, err := cr.catalog.Hindrance(id)
		if err != nil {
			continue
		}
		if other.CompanionMinorID == h.ID {
			return id
		}
	}
	return ""
}

// RemoveHindrance drops a hindrance. It fails if its points are already spent.
func (cr *Creator) RemoveHindrance(c *Character, hindranceID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	h, err := cr.catalog.Hindrance(hindranceID)
	if err != nil {
		return nil, err
	}
	if !c.HasHindrance(hindranceID) {
		return nil, dnderr.Validationf("does not have %s", h.Name).WithMeta("hindrance_id", hindranceID)
	}

	out := c.Clone()
	if err := out.Points.Unearn(PointsHindrance, h.PointValue); err != nil {
		return nil, err
	}
	out.RemoveHindranceID(hindranceID)
	if err := PruneSelections(out, cr.catalog); err != nil {
		return nil, err
	}
	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertHindrancePoints spends hindrance points on another category, or
// gives a conversion back when amount is negative
func (cr *Creator) ConvertHindrancePoints(c *Character, amount int, to PointCategory) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	out := c.Clone()
	if err := out.Points.Convert(amount, to); err != nil {
		return nil, err
	}
	return out, nil
}

// SelectModifierTarget records the player's choice for a selection modifier.
// An empty target clears the choice.
func (cr *Creator) SelectModifierTarget(c *Character, modifierID int64, targetID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	out := c.Clone()
	if err := ChooseTarget(out, modifierID, targetID, cr.catalog); err != nil {
		return nil, err
	}
	if err := cr.settle(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChooseTarget sets or clears the target of one of the character's selection
// modifiers. The character is changed in place.
func ChooseTarget(c *Character, modifierID int64, targetID string, catalog rulebook.Catalog) error {
	mods, err := Modifiers(c, catalog)
	if err != nil {
		return err
	}

	var selection *modifiers.Modifier
	for i := range mods {
		if mods[i].ID == modifierID && mods[i].ValueType == modifiers.ValueSelection {
			selection = &mods[i]
			break
		}
	}
	if selection == nil {
		return dnderr.NotFoundf("no choice %d to make for this character", modifierID).
			WithMeta("modifier_id", modifierID)
	}

	if targetID == "" {
		delete(c.Selections, modifierID)
		return nil
	}
	if err := checkTarget(catalog, selection.TargetType, targetID); err != nil {
		return err
	}
	if c.Selections == nil {
		c.Selections = make(map[int64]string)
	}
	c.Selections[modifierID] = targetID
	return nil
}

func checkTarget(catalog rulebook.Catalog, targetType modifiers.TargetType, id string) error {
	var err error
	switch targetType {
	case modifiers.TargetAttribute:
		_, err = catalog.Attribute(id)
	case modifiers.TargetSkill:
		_, err = catalog.Skill(id)
	case modifiers.TargetEdge:
		_, err = catalog.Edge(id)
	case modifiers.TargetPower:
		_, err = catalog.Power(id)
	case modifiers.TargetDerivedStat:
		for _, stat := range modifiers.DerivedStats {
			if string(stat) == id {
				return nil
			}
		}
		err = dnderr.NotFoundf("derived stat %s not found", id)
	}
	return err
}

// PruneSelections drops choices for modifiers the character no longer has
func PruneSelections(c *Character, catalog rulebook.Catalog) error {
	if len(c.Selections) == 0 {
		return nil
	}
	mods, err := Modifiers(c, catalog)
	if err != nil {
		return err
	}
	live := make(map[int64]bool, len(mods))
	for _, m := range mods {
		live[m.ID] = true
	}
	for id := range c.Selections {
		if !live[id] {
			delete(c.Selections, id)
		}
	}
	return nil
}

// AddPower learns a power through one of the character's arcane backgrounds
func (cr *Creator) AddPower(c *Character, powerID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	power, err := cr.catalog.Power(powerID)
	if err != nil {
		return nil, err
	}
	if contains(c.Powers, powerID) {
		return nil, dnderr.Validationf("already knows %s", power.Name).WithMeta("power_id", powerID)
	}

	limit := 0
	for _, id := range c.ArcaneBackgrounds {
		ab, err := cr.catalog.ArcaneBackground(id)
		if err != nil {
			return nil, err
		}
		limit += ab.StartingPowers
	}
	if len(c.Powers) >= limit {
		return nil, dnderr.Validationf("can know %d starting powers", limit).WithMeta("power_id", powerID)
	}

	_, ctx, err := Snapshot(c, cr.catalog)
	if err != nil {
		return nil, err
	}
	if ctx.RankTier < power.MinRank {
		return nil, dnderr.Validationf("%s needs %s rank", power.Name, power.MinRank.Title()).
			WithMeta("power_id", powerID)
	}
	if err := checkRequirements("power", power.Name, power.Requirements, ctx); err != nil {
		return nil, err.WithMeta("power_id", powerID)
	}

	out := c.Clone()
	out.Powers = append(out.Powers, powerID)
	return out, nil
}

// RemovePower forgets a power
func (cr *Creator) RemovePower(c *Character, powerID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	out := c.Clone()
	var ok bool
	if out.Powers, ok = removeOne(out.Powers, powerID); !ok {
		return nil, dnderr.Validationf("does not know %s", powerID).WithMeta("power_id", powerID)
	}
	if err := PruneSelections(out, cr.catalog); err != nil {
		return nil, err
	}
	return out, nil
}

// AddGear adds equipment. Packs are kept whole; ExpandGear lists their contents.
func (cr *Creator) AddGear(c *Character, gearID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	gear, err := cr.catalog.Gear(gearID)
	if err != nil {
		return nil, err
	}
	if gear.IsPack() {
		if _, err := cr.catalog.ExpandGear(gearID); err != nil {
			return nil, err
		}
	}
	_, ctx, err := Snapshot(c, cr.catalog)
	if err != nil {
		return nil, err
	}
	if err := checkRequirements("gear", gear.Name, gear.Requirements, ctx); err != nil {
		return nil, err.WithMeta("gear_id", gearID)
	}

	out := c.Clone()
	out.Gear = append(out.Gear, gearID)
	return out, nil
}

// RemoveGear drops one piece of equipment
func (cr *Creator) RemoveGear(c *Character, gearID string) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	out := c.Clone()
	var ok bool
	if out.Gear, ok = removeOne(out.Gear, gearID); !ok {
		return nil, dnderr.Validationf("does not carry %s", gearID).WithMeta("gear_id", gearID)
	}
	if err := PruneSelections(out, cr.catalog); err != nil {
		return nil, err
	}
	return out, nil
}

// Finalize ends creation. The ledger must balance and every choice must be made.
func (cr *Creator) Finalize(c *Character) (*Character, error) {
	if err := requireDraft(c); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, dnderr.Validation("name is required")
	}
	if c.AncestryID == "" {
		return nil, dnderr.Validation("ancestry is required")
	}
	if err := c.Points.Validate(); err != nil {
		return nil, err
	}

	ev, err := ComputeEffectiveValues(c, cr.catalog)
	if err != nil {
		return nil, err
	}
	if len(ev.Pending) > 0 {
		return nil, dnderr.Validationf("%d choices still need a target", len(ev.Pending)).
			WithMeta("modifier_id", ev.Pending[0].ID)
	}

	out := c.Clone()
	out.Status = shared.CharacterStatusActive
	return out, nil
}

// settle recomputes what the current dice and edges cost and moves the
// ledger to match, failing if the budget cannot cover it.
func (cr *Creator) settle(c *Character) error {
	ev, err := ComputeEffectiveValues(c, cr.catalog)
	if err != nil {
		return err
	}

	skillCost, err := cr.skillCost(c, ev)
	if err != nil {
		return err
	}

	targets := []struct {
		cat  PointCategory
		want int
	}{
		{PointsAttribute, attributeCost(c)},
		{PointsSkill, skillCost},
		{PointsEdge, len(c.Edges)},
	}
	for _, t := range targets {
		if err := adjustSpent(&c.Points, t.cat, t.want); err != nil {
			return err
		}
	}
	return nil
}

func adjustSpent(l *PointLedger, cat PointCategory, want int) error {
	have := l.Spent[cat]
	switch {
	case want > have:
		return l.Spend(cat, want-have)
	case want < have:
		return l.Refund(cat, have-want)
	}
	return nil
}

func attributeCost(c *Character) int {
	cost := 0
	for _, r := range c.Attributes {
		cost += r.Step()
	}
	return cost
}

// skillCost prices every skill from its free starting point, d4 for core
// skills and untrained otherwise.
func (cr *Creator) skillCost(c *Character, ev *EffectiveValues) (int, error) {
	cost := 0
	for id, r := range c.Skills {
		skill, err := cr.catalog.Skill(id)
		if err != nil {
			return 0, err
		}
		linked, ok := ev.AttributeDie(skill.LinkedAttributeID)
		if !ok {
			return 0, dnderr.Statef("skill %s links to missing attribute %s", id, skill.LinkedAttributeID)
		}
		cost += StepCost(r, linked, skill.Core)
	}
	return cost, nil
}

// StepCost is what buying a skill up to die costs against the linked
// attribute die: one point per step up to the attribute, two above it.
func StepCost(die, linked dice.Rank, core bool) int {
	cost := 0
	var step *dice.Rank
	if core {
		d4 := dice.D4()
		step = &d4
	}
	for {
		next := dice.IncrementUntrained(step)
		if die.Less(next) {
			break
		}
		if next.Compare(linked) <= 0 {
			cost++
		} else {
			cost += 2
		}
		step = &next
	}
	return cost
}

// checkRequirements returns a validation error when the tree does not pass.
// The message lists the blocking leaves, or the whole tree when none stand out.
func checkRequirements(kind, name string, expr *requirements.Expression, ctx *requirements.Context) *dnderr.Error {
	if expr.Evaluate(ctx) {
		return nil
	}
	unmet := expr.Unmet(ctx)
	if len(unmet) == 0 {
		return dnderr.Validationf("%s %s requires %s", kind, name, expr.Describe())
	}
	parts := make([]string, 0, len(unmet))
	for _, r := range unmet {
		parts = append(parts, r.String())
	}
	return dnderr.Validationf("%s %s requires %s", kind, name, strings.Join(parts, ", "))
}
