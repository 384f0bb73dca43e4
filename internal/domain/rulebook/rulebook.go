package rulebook

//go:generate mockgen -destination=mock/mock_catalog.go -package=mockrulebook -source=rulebook.go

import (
	"sort"
	"sync"

	"github.com/KirkDiggler/savage-character-engine/internal/domain/shared"
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
	"github.com/KirkDiggler/savage-character-engine/internal/modifiers"
)

// Catalog is the read side of the ruleset used by the character rules
type Catalog interface {
	Attribute(id string) (*Attribute, error)
	Attributes() []*Attribute
	Skill(id string) (*Skill, error)
	Skills() []*Skill
	Edge(id string) (*Edge, error)
	Edges() []*Edge
	Hindrance(id string) (*Hindrance, error)
	Hindrances() []*Hindrance
	Power(id string) (*Power, error)
	ArcaneBackground(id string) (*ArcaneBackground, error)
	Ancestry(id string) (*Ancestry, error)
	Gear(id string) (*Gear, error)

	// ExpandGear flattens a pack into the items it contains
	ExpandGear(id string) ([]GearItem, error)

	// RankFor returns the tier a character with the given number of advances is in
	RankFor(advances int) shared.RankTier
}

// Rulebook holds every entity of a ruleset
type Rulebook struct {
	mu sync.RWMutex

	attributes        map[string]*Attribute
	skills            map[string]*Skill
	edges             map[string]*Edge
	hindrances        map[string]*Hindrance
	powers            map[string]*Power
	arcaneBackgrounds map[string]*ArcaneBackground
	ancestries        map[string]*Ancestry
	gear              map[string]*Gear
	ranks             []Rank
}

// New creates an empty rulebook
func New() *Rulebook {
	return &Rulebook{
		attributes:        make(map[string]*Attribute),
		skills:            make(map[string]*Skill),
		edges:             make(map[string]*Edge),
		hindrances:        make(map[string]*Hindrance),
		powers:            make(map[string]*Power),
		arcaneBackgrounds: make(map[string]*ArcaneBackground),
		ancestries:        make(map[string]*Ancestry),
		gear:              make(map[string]*Gear),
	}
}

func register[T any](mu *sync.RWMutex, entries map[string]*T, kind, id string, entry *T) error {
	if id == "" {
		return dnderr.InvalidArgumentf("%s id cannot be empty", kind)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		return dnderr.AlreadyExistsf("%s %s already registered", kind, id).WithMeta("id", id)
	}
	entries[id] = entry
	return nil
}

func lookup[T any](mu *sync.RWMutex, entries map[string]*T, kind, id string) (*T, error) {
	mu.RLock()
	defer mu.RUnlock()

	entry, ok := entries[id]
	if !ok {
		return nil, dnderr.NotFoundf("%s %s not found", kind, id).WithMeta("id", id)
	}
	return entry, nil
}

func sorted[T any](mu *sync.RWMutex, entries map[string]*T) []*T {
	mu.RLock()
	defer mu.RUnlock()

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		out = append(out, entries[id])
	}
	return out
}

// AddAttribute registers an attribute
func (r *Rulebook) AddAttribute(a *Attribute) error {
	if a == nil {
		return dnderr.InvalidArgument("attribute cannot be nil")
	}
	return register(&r.mu, r.attributes, "attribute", a.ID, a)
}

// AddSkill registers a skill
func (r *Rulebook) AddSkill(s *Skill) error {
	if s == nil {
		return dnderr.InvalidArgument("skill cannot be nil")
	}
	return register(&r.mu, r.skills, "skill", s.ID, s)
}

// AddEdge registers an edge
func (r *Rulebook) AddEdge(e *Edge) error {
	if e == nil {
		return dnderr.InvalidArgument("edge cannot be nil")
	}
	return register(&r.mu, r.edges, "edge", e.ID, e)
}

// AddHindrance registers a hindrance
func (r *Rulebook) AddHindrance(h *Hindrance) error {
	if h == nil {
		return dnderr.InvalidArgument("hindrance cannot be nil")
	}
	return register(&r.mu, r.hindrances, "hindrance", h.ID, h)
}

// AddPower registers a power
func (r *Rulebook) AddPower(p *Power) error {
	if p == nil {
		return dnderr.InvalidArgument("power cannot be nil")
	}
	return register(&r.mu, r.powers, "power", p.ID, p)
}

// AddArcaneBackground registers an arcane background
func (r *Rulebook) AddArcaneBackground(ab *ArcaneBackground) error {
	if ab == nil {
		return dnderr.InvalidArgument("arcane background cannot be nil")
	}
	return register(&r.mu, r.arcaneBackgrounds, "arcane background", ab.ID, ab)
}

// AddAncestry registers an ancestry
func (r *Rulebook) AddAncestry(a *Ancestry) error {
	if a == nil {
		return dnderr.InvalidArgument("ancestry cannot be nil")
	}
	return register(&r.mu, r.ancestries, "ancestry", a.ID, a)
}

// AddGear registers a piece of gear
func (r *Rulebook) AddGear(g *Gear) error {
	if g == nil {
		return dnderr.InvalidArgument("gear cannot be nil")
	}
	return register(&r.mu, r.gear, "gear", g.ID, g)
}

// SetRanks replaces the rank table. Rows must cover consecutive tiers starting
// at Novice with increasing advance thresholds.
func (r *Rulebook) SetRanks(ranks []Rank) error {
	rows := make([]Rank, len(ranks))
	copy(rows, ranks)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Tier < rows[j].Tier })

	for i, row := range rows {
		if row.Tier != shared.RankTier(i) {
			return dnderr.Statef("rank table is missing tier %d", i)
		}
		if i == 0 && row.MinAdvances != 0 {
			return dnderr.Statef("rank %s must start at 0 advances", row.Name)
		}
		if i > 0 && row.MinAdvances <= rows[i-1].MinAdvances {
			return dnderr.Statef("rank %s must need more advances than %s", row.Name, rows[i-1].Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranks = rows
	return nil
}

func (r *Rulebook) Attribute(id string) (*Attribute, error) {
	return lookup(&r.mu, r.attributes, "attribute", id)
}

func (r *Rulebook) Attributes() []*Attribute {
	return sorted(&r.mu, r.attributes)
}

func (r *Rulebook) Skill(id string) (*Skill, error) {
	return lookup(&r.mu, r.skills, "skill", id)
}

func (r *Rulebook) Skills() []*Skill {
	return sorted(&r.mu, r.skills)
}

func (r *Rulebook) Edge(id string) (*Edge, error) {
	return lookup(&r.mu, r.edges, "edge", id)
}

func (r *Rulebook) Edges() []*Edge {
	return sorted(&r.mu, r.edges)
}

func (r *Rulebook) Hindrance(id string) (*Hindrance, error) {
	return lookup(&r.mu, r.hindrances, "hindrance", id)
}

func (r *Rulebook) Hindrances() []*Hindrance {
	return sorted(&r.mu, r.hindrances)
}

func (r *Rulebook) Power(id string) (*Power, error) {
	return lookup(&r.mu, r.powers, "power", id)
}

func (r *Rulebook) Powers() []*Power {
	return sorted(&r.mu, r.powers)
}

func (r *Rulebook) ArcaneBackground(id string) (*ArcaneBackground, error) {
	return lookup(&r.mu, r.arcaneBackgrounds, "arcane background", id)
}

func (r *Rulebook) ArcaneBackgrounds() []*ArcaneBackground {
	return sorted(&r.mu, r.arcaneBackgrounds)
}

func (r *Rulebook) Ancestry(id string) (*Ancestry, error) {
	return lookup(&r.mu, r.ancestries, "ancestry", id)
}

func (r *Rulebook) Ancestries() []*Ancestry {
	return sorted(&r.mu, r.ancestries)
}

func (r *Rulebook) Gear(id string) (*Gear, error) {
	return lookup(&r.mu, r.gear, "gear", id)
}

func (r *Rulebook) GearList() []*Gear {
	return sorted(&r.mu, r.gear)
}

// RankFor uses the loaded rank table, or the standard four advances per rank
// when none was loaded.
func (r *Rulebook) RankFor(advances int) shared.RankTier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.ranks) == 0 {
		return shared.RankForAdvances(advances)
	}
	tier := r.ranks[0].Tier
	for _, row := range r.ranks {
		if advances >= row.MinAdvances {
			tier = row.Tier
		}
	}
	return tier
}

// Ranks returns the rank table
func (r *Rulebook) Ranks() []Rank {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Rank, len(r.ranks))
	copy(out, r.ranks)
	return out
}

// AllModifiers returns every modifier attached to any entity, by ascending ID
func (r *Rulebook) AllModifiers() []modifiers.Modifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []modifiers.Modifier
	for _, e := range r.edges {
		out = append(out, e.Modifiers...)
	}
	for _, h := range r.hindrances {
		out = append(out, h.Modifiers...)
	}
	for _, p := range r.powers {
		out = append(out, p.Modifiers...)
	}
	for _, a := range r.ancestries {
		out = append(out, a.Modifiers...)
	}
	for _, g := range r.gear {
		out = append(out, g.Modifiers...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
