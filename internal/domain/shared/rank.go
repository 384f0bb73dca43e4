package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// RankTier is a character's overall experience tier
type RankTier int

const (
	RankNovice RankTier = iota
	RankSeasoned
	RankVeteran
	RankHeroic
	RankLegendary
)

// AdvancesPerRank is how many advances a character takes before moving up a tier
const AdvancesPerRank = 4

var rankNames = map[RankTier]string{
	RankNovice:    "novice",
	RankSeasoned:  "seasoned",
	RankVeteran:   "veteran",
	RankHeroic:    "heroic",
	RankLegendary: "legendary",
}

// RankForAdvances returns the tier a character with the given number of advances is in.
// Novice covers 0-3 advances, Seasoned 4-7, and so on up to Legendary at 16+.
func RankForAdvances(advances int) RankTier {
	if advances < 0 {
		return RankNovice
	}
	tier := RankTier(advances / AdvancesPerRank)
	if tier > RankLegendary {
		return RankLegendary
	}
	return tier
}

func (r RankTier) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rank(%d)", int(r))
}

// Title is the display form, e.g. "Seasoned"
func (r RankTier) Title() string {
	name := r.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseRankTier accepts a tier number or a rank name ("seasoned", "Veteran")
func ParseRankTier(s string) (RankTier, error) {
	raw := strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(raw); err == nil {
		if n < int(RankNovice) || n > int(RankLegendary) {
			return 0, fmt.Errorf("rank tier %d out of range", n)
		}
		return RankTier(n), nil
	}
	for tier, name := range rankNames {
		if name == raw {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}
