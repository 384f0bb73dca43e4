package rulebook

import (
	"sort"

	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// GearItem is a single item after pack expansion
type GearItem struct {
	GearID   string
	Quantity int
}

// ExpandGear flattens a pack into its leaf items, multiplying quantities
// through nested packs. A pack that contains itself, directly or through
// other packs, is rejected.
func (r *Rulebook) ExpandGear(id string) ([]GearItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := make(map[string]int)
	if err := r.expandGear(id, 1, make(map[string]bool), totals); err != nil {
		return nil, err
	}

	out := make([]GearItem, 0, len(totals))
	for gearID, qty := range totals {
		out = append(out, GearItem{GearID: gearID, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GearID < out[j].GearID })
	return out, nil
}

// expandGear walks one path of the pack graph; onPath holds the packs being
// expanded above this one so sibling packs may share contents.
func (r *Rulebook) expandGear(id string, qty int, onPath map[string]bool, totals map[string]int) error {
	g, ok := r.gear[id]
	if !ok {
		return dnderr.NotFoundf("gear %s not found", id).WithMeta("gear_id", id)
	}
	if onPath[id] {
		return dnderr.Validationf("gear pack %s contains itself", id).WithMeta("gear_id", id)
	}

	if !g.IsPack() {
		totals[id] += qty
		return nil
	}

	onPath[id] = true
	defer delete(onPath, id)

	for _, c := range g.Contents {
		n := c.Quantity
		if n <= 0 {
			n = 1
		}
		if err := r.expandGear(c.GearID, qty*n, onPath, totals); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks cross references between entities: skills link to known
// attributes, major hindrances reduce to known minor ones, arcane backgrounds
// name known skills, and gear packs resolve without cycles.
func (r *Rulebook) Validate() error {
	for _, s := range r.Skills() {
		if _, err := r.Attribute(s.LinkedAttributeID); err != nil {
			return dnderr.Statef("skill %s links to unknown attribute %q", s.ID, s.LinkedAttributeID).
				WithMeta("skill_id", s.ID)
		}
	}

	for _, h := range r.Hindrances() {
		switch h.Severity {
		case SeverityMinor, SeverityMajor:
		default:
			return dnderr.Statef("hindrance %s has unknown severity %q", h.ID, h.Severity).
				WithMeta("hindrance_id", h.ID)
		}
		if h.PointValue < 0 {
			return dnderr.Statef("hindrance %s has negative point value", h.ID).WithMeta("hindrance_id", h.ID)
		}
		if h.CompanionMinorID == "" {
			continue
		}
		companion, err := r.Hindrance(h.CompanionMinorID)
		if err != nil {
			return dnderr.Statef("hindrance %s reduces to unknown hindrance %q", h.ID, h.CompanionMinorID).
				WithMeta("hindrance_id", h.ID)
		}
		if !h.IsMajor() || companion.IsMajor() {
			return dnderr.Statef("hindrance %s must be major and reduce to a minor hindrance", h.ID).
				WithMeta("hindrance_id", h.ID)
		}
	}

	for _, ab := range r.ArcaneBackgrounds() {
		if _, err := r.Skill(ab.ArcaneSkillID); err != nil {
			return dnderr.Statef("arcane background %s uses unknown skill %q", ab.ID, ab.ArcaneSkillID).
				WithMeta("arcane_background_id", ab.ID)
		}
	}

	for _, e := range r.Edges() {
		if e.GrantsArcaneBackgroundID == "" {
			continue
		}
		if _, err := r.ArcaneBackground(e.GrantsArcaneBackgroundID); err != nil {
			return dnderr.Statef("edge %s grants unknown arcane background %q", e.ID, e.GrantsArcaneBackgroundID).
				WithMeta("edge_id", e.ID)
		}
	}

	for _, g := range r.GearList() {
		if !g.IsPack() {
			continue
		}
		if _, err := r.ExpandGear(g.ID); err != nil {
			if dnderr.IsNotFound(err) {
				return dnderr.WrapWithCode(err, dnderr.CodeState, "gear pack "+g.ID+" has unknown contents").
					WithMeta("gear_id", g.ID)
			}
			return err
		}
	}

	return nil
}
