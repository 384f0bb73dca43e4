package catalog

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/requirements"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/modifiers"
)

// Config controls how rulebook files are decoded
type Config struct {
	// Lenient turns unknown enum values into safe fallbacks, logging each one,
	// instead of failing the load
	Lenient bool
}

// Loader builds rulebooks from YAML files
type Loader struct {
	lenient bool
}

func NewLoader(cfg *Config) *Loader {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Loader{lenient: cfg.Lenient}
}

// LoadFile reads and builds the rulebook at path
func (l *Loader) LoadFile(path string) (*rulebook.Rulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, dnderr.NotFoundf("rulebook file %s not found", path).WithMeta("path", path)
		}
		return nil, dnderr.Wrapf(err, "failed to read rulebook %s", path).WithMeta("path", path)
	}

	rb, err := l.Load(bytes.NewReader(data))
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to load rulebook %s", path).WithMeta("path", path)
	}
	return rb, nil
}

// Load decodes a rulebook document and checks its cross references
func (l *Loader) Load(r io.Reader) (*rulebook.Rulebook, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(!l.lenient)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeState, "invalid rulebook document")
	}

	rb, err := l.build(&f)
	if err != nil {
		return nil, err
	}
	if err := rb.Validate(); err != nil {
		return nil, err
	}

	log.Printf("CatalogLoader: loaded %d attributes, %d skills, %d edges, %d hindrances, %d powers, %d modifiers",
		len(f.Attributes), len(f.Skills), len(f.Edges), len(f.Hindrances), len(f.Powers), len(f.Modifiers))
	return rb, nil
}

func (l *Loader) build(f *File) (*rulebook.Rulebook, error) {
	trees, err := requirements.Build(f.RequirementNodes, requirements.DecodeOptions{Lenient: l.lenient})
	if err != nil {
		return nil, err
	}
	mods, err := l.decodeModifiers(f.Modifiers)
	if err != nil {
		return nil, err
	}
	b := &assembly{trees: trees, mods: mods}

	rb := rulebook.New()
	for _, rec := range f.Attributes {
		if err := rb.AddAttribute(&rulebook.Attribute{ID: rec.ID, Name: rec.Name}); err != nil {
			return nil, err
		}
	}
	for _, rec := range f.Skills {
		err := rb.AddSkill(&rulebook.Skill{ID: rec.ID, Name: rec.Name, LinkedAttributeID: rec.Attribute, Core: rec.Core})
		if err != nil {
			return nil, err
		}
	}
	if len(f.Ranks) > 0 {
		ranks, err := decodeRanks(f.Ranks)
		if err != nil {
			return nil, err
		}
		if err := rb.SetRanks(ranks); err != nil {
			return nil, err
		}
	}

	for _, rec := range f.Hindrances {
		severity, err := l.decodeSeverity(rec)
		if err != nil {
			return nil, err
		}
		err = rb.AddHindrance(&rulebook.Hindrance{
			ID:               rec.ID,
			Name:             rec.Name,
			Severity:         severity,
			PointValue:       rec.Points,
			CompanionMinorID: rec.CompanionMinor,
			Description:      rec.Description,
			Modifiers:        b.modifiersFor(modifiers.SourceTypeHindrance, rec.ID),
		})
		if err != nil {
			return nil, err
		}
	}

	for _, rec := range f.Edges {
		err := rb.AddEdge(&rulebook.Edge{
			ID:                       rec.ID,
			Name:                     rec.Name,
			Category:                 rec.Category,
			Description:              rec.Description,
			Repeatable:               rec.Repeatable,
			Requirements:             b.treeFor(requirements.OwnerEdge, rec.ID),
			Modifiers:                b.modifiersFor(modifiers.SourceTypeEdge, rec.ID),
			GrantsArcaneBackgroundID: rec.GrantsArcaneBackground,
		})
		if err != nil {
			return nil, err
		}
	}

	for _, rec := range f.Powers {
		minRank, err := decodeMinRank(rec)
		if err != nil {
			return nil, err
		}
		err = rb.AddPower(&rulebook.Power{
			ID:           rec.ID,
			Name:         rec.Name,
			PowerPoints:  rec.PowerPoints,
			MinRank:      minRank,
			Requirements: b.treeFor(requirements.OwnerPower, rec.ID),
			Modifiers:    b.modifiersFor(modifiers.SourceTypePower, rec.ID),
		})
		if err != nil {
			return nil, err
		}
	}

	for _, rec := range f.ArcaneBackgrounds {
		err := rb.AddArcaneBackground(&rulebook.ArcaneBackground{
			ID:             rec.ID,
			Name:           rec.Name,
			ArcaneSkillID:  rec.Skill,
			StartingPowers: rec.StartingPowers,
			PowerPoints:    rec.PowerPoints,
			Requirements:   b.treeFor(requirements.OwnerArcaneBackground, rec.ID),
		})
		if err != nil {
			return nil, err
		}
	}

	for _, rec := range f.Ancestries {
		err := rb.AddAncestry(&rulebook.Ancestry{
			ID:           rec.ID,
			Name:         rec.Name,
			Requirements: b.treeFor(requirements.OwnerAncestry, rec.ID),
			Modifiers:    b.modifiersFor(modifiers.SourceTypeAncestry, rec.ID),
		})
		if err != nil {
			return nil, err
		}
	}

	for _, rec := range f.Gear {
		g := &rulebook.Gear{
			ID:           rec.ID,
			Name:         rec.Name,
			Cost:         rec.Cost,
			Weight:       rec.Weight,
			Requirements: b.treeFor(requirements.OwnerGear, rec.ID),
			Modifiers:    b.modifiersFor(modifiers.SourceTypeGear, rec.ID),
		}
		for _, c := range rec.Contents {
			g.Contents = append(g.Contents, rulebook.GearContent{GearID: c.GearID, Quantity: c.Quantity})
		}
		if err := rb.AddGear(g); err != nil {
			return nil, err
		}
	}

	if err := b.leftovers(); err != nil {
		return nil, err
	}
	return rb, nil
}

func (l *Loader) decodeModifiers(records []modifiers.Record) (map[modifiers.SourceType]map[string][]modifiers.Modifier, error) {
	out := make(map[modifiers.SourceType]map[string][]modifiers.Modifier)
	seen := make(map[int64]bool, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			return nil, dnderr.Statef("duplicate modifier id %d", rec.ID).WithMeta("modifier_id", rec.ID)
		}
		seen[rec.ID] = true

		m, err := modifiers.Decode(rec, l.lenient)
		if err != nil {
			return nil, err
		}
		if out[m.SourceType] == nil {
			out[m.SourceType] = make(map[string][]modifiers.Modifier)
		}
		out[m.SourceType][m.SourceID] = append(out[m.SourceType][m.SourceID], m)
	}
	return out, nil
}

func (l *Loader) decodeSeverity(rec HindranceRecord) (rulebook.Severity, error) {
	severity := rulebook.Severity(strings.ToLower(strings.TrimSpace(rec.Severity)))
	switch severity {
	case rulebook.SeverityMinor, rulebook.SeverityMajor:
		return severity, nil
	}
	if !l.lenient {
		return "", dnderr.Statef("hindrance %s has unknown severity %q", rec.ID, rec.Severity).
			WithMeta("hindrance_id", rec.ID)
	}
	log.Printf("CatalogLoader: hindrance %s has unknown severity %q, treating as minor", rec.ID, rec.Severity)
	return rulebook.SeverityMinor, nil
}

func decodeMinRank(rec PowerRecord) (shared.RankTier, error) {
	if rec.MinRank == "" {
		return shared.RankNovice, nil
	}
	tier, err := shared.ParseRankTier(rec.MinRank)
	if err != nil {
		return 0, dnderr.WrapWithCode(err, dnderr.CodeState, "power "+rec.ID+" has an invalid minimum rank").
			WithMeta("power_id", rec.ID)
	}
	return tier, nil
}

func decodeRanks(records []RankRecord) ([]rulebook.Rank, error) {
	ranks := make([]rulebook.Rank, 0, len(records))
	for _, rec := range records {
		tier, err := shared.ParseRankTier(rec.Tier)
		if err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeState, "invalid rank table")
		}
		name := rec.Name
		if name == "" {
			name = tier.Title()
		}
		ranks = append(ranks, rulebook.Rank{Tier: tier, Name: name, MinAdvances: rec.MinAdvances})
	}
	return ranks, nil
}

// assembly hands decoded trees and modifiers to their owners and remembers
// which were claimed
type assembly struct {
	trees map[requirements.Owner]*requirements.Expression
	mods  map[modifiers.SourceType]map[string][]modifiers.Modifier
}

func (a *assembly) treeFor(ownerType requirements.OwnerType, id string) *requirements.Expression {
	owner := requirements.Owner{Type: ownerType, ID: id}
	tree := a.trees[owner]
	delete(a.trees, owner)
	return tree
}

func (a *assembly) modifiersFor(source modifiers.SourceType, id string) []modifiers.Modifier {
	list := a.mods[source][id]
	delete(a.mods[source], id)
	return list
}

// leftovers reports trees or modifiers whose owner does not exist
func (a *assembly) leftovers() error {
	var owners []requirements.Owner
	for owner := range a.trees {
		owners = append(owners, owner)
	}
	if len(owners) > 0 {
		sort.Slice(owners, func(i, j int) bool { return owners[i].ID < owners[j].ID })
		return dnderr.Statef("requirements reference unknown %s %q", owners[0].Type, owners[0].ID).
			WithMeta("owner_id", owners[0].ID)
	}

	var orphans []modifiers.Modifier
	for _, byID := range a.mods {
		for _, list := range byID {
			orphans = append(orphans, list...)
		}
	}
	if len(orphans) > 0 {
		sort.Slice(orphans, func(i, j int) bool { return orphans[i].ID < orphans[j].ID })
		m := orphans[0]
		return dnderr.Statef("modifier %d references unknown %s %q", m.ID, m.SourceType, m.SourceID).
			WithMeta("modifier_id", m.ID)
	}
	return nil
}
