package modifiers

import (
	"sort"

	"github.com/KirkDiggler/savage-character-engine/internal/dice"
)

// DerivedStat is a number computed from the character rather than bought
type DerivedStat string

const (
	StatPace      DerivedStat = "pace"
	StatParry     DerivedStat = "parry"
	StatToughness DerivedStat = "toughness"
	StatSize      DerivedStat = "size"
)

// DerivedStats lists the derived stats in the order they must be computed,
// since toughness depends on the effective size.
var DerivedStats = []DerivedStat{StatSize, StatPace, StatParry, StatToughness}

var statBases = map[DerivedStat]int{
	StatPace:      6,
	StatParry:     2,
	StatToughness: 2,
	StatSize:      0,
}

// BaseValue returns the fixed starting value of a derived stat
func BaseValue(stat DerivedStat) int {
	return statBases[stat]
}

// EffectiveDie is an attribute or skill die after modifiers
type EffectiveDie struct {
	Target Target

	// Base is the purchased die; nil for an untrained skill
	Base *dice.Rank

	// Die is the die after increments; nil if still untrained
	Die *dice.Rank

	// Bonus is the sum of roll and flat bonuses, kept apart from the die
	Bonus int

	// Applied holds the IDs of the modifiers that changed the result, in application order
	Applied []int64

	// Notes carries descriptions of modifiers that are not applied automatically
	Notes []string
}

// EffectiveStat is a derived stat after modifiers
type EffectiveStat struct {
	Stat DerivedStat

	// Base is the fixed starting value, Linked the part contributed by other values
	Base   int
	Linked int

	Value     int
	RollBonus int
	Applied   []int64
	Notes     []string
}

// ForTarget returns the modifiers aimed at target, ordered by ascending ID.
// The input slice is not reordered.
func ForTarget(mods []Modifier, target Target) []Modifier {
	var out []Modifier
	for _, m := range mods {
		if m.TargetType == target.Type && m.TargetID == target.ID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ComputeDie composes a base die with the modifiers aimed at target. Each
// die_increment moves the die one step, so an untrained skill becomes d4.
// The result is always recomputed from base.
func ComputeDie(target Target, base *dice.Rank, mods []Modifier) EffectiveDie {
	out := EffectiveDie{Target: target}
	if base != nil {
		b := *base
		out.Base = &b
	}

	var current *dice.Rank
	if base != nil {
		c := *base
		current = &c
	}

	for _, m := range ForTarget(mods, target) {
		switch m.ValueType {
		case ValueDieIncrement:
			if m.Value < 0 {
				if current == nil {
					continue
				}
				lowered, ok := current.Decrement()
				if !ok {
					continue
				}
				current = &lowered
			} else {
				raised := dice.IncrementUntrained(current)
				current = &raised
			}
			out.Applied = append(out.Applied, m.ID)
		case ValueRollBonus, ValueFlatBonus:
			out.Bonus += m.Value
			out.Applied = append(out.Applied, m.ID)
		default:
			if m.Description != "" {
				out.Notes = append(out.Notes, m.Description)
			}
		}
	}

	out.Die = current
	return out
}

// ComputeStat composes a derived stat from its fixed base, a linked
// contribution, and the modifiers aimed at it. A die_increment on a number
// moves it by one.
func ComputeStat(stat DerivedStat, linked int, mods []Modifier) EffectiveStat {
	out := EffectiveStat{
		Stat:   stat,
		Base:   BaseValue(stat),
		Linked: linked,
	}
	out.Value = out.Base + linked

	for _, m := range ForTarget(mods, Target{Type: TargetDerivedStat, ID: string(stat)}) {
		switch m.ValueType {
		case ValueDieIncrement:
			if m.Value < 0 {
				out.Value--
			} else {
				out.Value++
			}
			out.Applied = append(out.Applied, m.ID)
		case ValueFlatBonus:
			out.Value += m.Value
			out.Applied = append(out.Applied, m.ID)
		case ValueRollBonus:
			out.RollBonus += m.Value
			out.Applied = append(out.Applied, m.ID)
		default:
			if m.Description != "" {
				out.Notes = append(out.Notes, m.Description)
			}
		}
	}
	return out
}

// DerivedInputs are the effective values derived stats are linked to
type DerivedInputs struct {
	Fighting *dice.Rank
	Vigor    *dice.Rank
}

// ComputeDerived computes every derived stat. Parry adds half the Fighting
// die, Toughness adds half the Vigor die plus the effective Size.
func ComputeDerived(in DerivedInputs, mods []Modifier) map[DerivedStat]EffectiveStat {
	out := make(map[DerivedStat]EffectiveStat, len(DerivedStats))
	for _, stat := range DerivedStats {
		linked := 0
		switch stat {
		case StatParry:
			if in.Fighting != nil {
				linked = in.Fighting.Half()
			}
		case StatToughness:
			if in.Vigor != nil {
				linked = in.Vigor.Half()
			}
			linked += out[StatSize].Value
		}
		out[stat] = ComputeStat(stat, linked, mods)
	}
	return out
}

// Resolve returns a copy of mods with every chosen selection turned into a
// concrete modifier aimed at the chosen target. Selections without a choice
// stay informational.
func Resolve(mods []Modifier, selections map[int64]string) []Modifier {
	out := make([]Modifier, len(mods))
	for i, m := range mods {
		out[i] = m
		if m.ValueType != ValueSelection {
			continue
		}
		chosen, ok := selections[m.ID]
		if !ok || chosen == "" {
			continue
		}
		out[i].TargetID = chosen
		out[i].ValueType = m.ResolvesTo
		if out[i].ValueType == "" {
			out[i].ValueType = ValueDieIncrement
		}
		if out[i].Value == 0 && out[i].ValueType == ValueDieIncrement {
			out[i].Value = 1
		}
	}
	return out
}

// Pending returns the selection modifiers still waiting for a choice
func Pending(mods []Modifier, selections map[int64]string) []Modifier {
	var out []Modifier
	for _, m := range mods {
		if m.ValueType == ValueSelection && selections[m.ID] == "" {
			out = append(out, m)
		}
	}
	return out
}
