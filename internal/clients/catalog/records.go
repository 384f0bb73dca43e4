package catalog

import (
	"github.com/KirkDiggler/savage-character-engine/internal/domain/requirements"
	"github.com/KirkDiggler/savage-character-engine/internal/modifiers"
)

// File is the on-disk rulebook. Sections mirror the persisted tables, so
// modifiers and requirement nodes are flat lists that point at their owners.
type File struct {
	Attributes        []AttributeRecord         `yaml:"attributes"`
	Skills            []SkillRecord             `yaml:"skills"`
	Ranks             []RankRecord              `yaml:"ranks"`
	Hindrances        []HindranceRecord         `yaml:"hindrances"`
	Edges             []EdgeRecord              `yaml:"edges"`
	Powers            []PowerRecord             `yaml:"powers"`
	ArcaneBackgrounds []ArcaneBackgroundRecord  `yaml:"arcane_backgrounds"`
	Ancestries        []AncestryRecord          `yaml:"ancestries"`
	Gear              []GearRecord              `yaml:"gear"`
	Modifiers         []modifiers.Record        `yaml:"modifiers"`
	RequirementNodes  []requirements.NodeRecord `yaml:"requirement_nodes"`
}

type AttributeRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type SkillRecord struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Attribute string `yaml:"attribute"`
	Core      bool   `yaml:"core,omitempty"`
}

type RankRecord struct {
	Tier        string `yaml:"tier"`
	Name        string `yaml:"name"`
	MinAdvances int    `yaml:"min_advances"`
}

type HindranceRecord struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Severity       string `yaml:"severity"`
	Points         int    `yaml:"points"`
	CompanionMinor string `yaml:"companion_minor,omitempty"`
	Description    string `yaml:"description,omitempty"`
}

type EdgeRecord struct {
	ID                     string `yaml:"id"`
	Name                   string `yaml:"name"`
	Category               string `yaml:"category,omitempty"`
	Description            string `yaml:"description,omitempty"`
	Repeatable             bool   `yaml:"repeatable,omitempty"`
	GrantsArcaneBackground string `yaml:"grants_arcane_background,omitempty"`
}

type PowerRecord struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	PowerPoints int    `yaml:"power_points"`
	MinRank     string `yaml:"min_rank,omitempty"`
}

type ArcaneBackgroundRecord struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Skill          string `yaml:"skill"`
	StartingPowers int    `yaml:"starting_powers"`
	PowerPoints    int    `yaml:"power_points"`
}

type AncestryRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type GearContentRecord struct {
	GearID   string `yaml:"gear_id"`
	Quantity int    `yaml:"quantity"`
}

type GearRecord struct {
	ID       string              `yaml:"id"`
	Name     string              `yaml:"name"`
	Cost     int                 `yaml:"cost,omitempty"`
	Weight   float64             `yaml:"weight,omitempty"`
	Contents []GearContentRecord `yaml:"contents,omitempty"`
}
