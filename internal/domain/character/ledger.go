package character

import (
	dnderr "github.com/KirkDiggler/savage-character-engine/internal/errors"
)

// PointCategory is a bucket of points in the ledger
type PointCategory string

const (
	PointsAttribute PointCategory = "attribute"
	PointsSkill     PointCategory = "skill"
	PointsEdge      PointCategory = "edge"
	PointsWealth    PointCategory = "wealth"
	PointsHindrance PointCategory = "hindrance"
)

// PointCategories lists every category
var PointCategories = []PointCategory{PointsAttribute, PointsSkill, PointsEdge, PointsWealth, PointsHindrance}

const (
	// StartingAttributePoints is the attribute budget of a new character
	StartingAttributePoints = 5

	// StartingSkillPoints is the skill budget of a new character
	StartingSkillPoints = 12

	// HindrancePointCap is the most hindrance points that can be spent
	HindrancePointCap = 4
)

// ExchangeRates is the cost in hindrance points of one unit of each category
var ExchangeRates = map[PointCategory]int{
	PointsAttribute: 2,
	PointsSkill:     1,
	PointsEdge:      2,
	PointsWealth:    1,
}

// PointLedger tracks earned, spent and converted points by category.
// For every category spent never exceeds earned plus converted in; for
// hindrance points "spent" is the cost of the conversions made.
type PointLedger struct {
	Earned map[PointCategory]int `json:"earned"`
	Spent  map[PointCategory]int `json:"spent"`

	// Converted counts units bought with hindrance points, by target category
	Converted map[PointCategory]int `json:"converted"`

	// BoughtOff counts hindrance points retired by advances. Benefits already
	// bought with them are kept.
	BoughtOff int `json:"bought_off,omitempty"`
}

// NewPointLedger returns a ledger with the standard starting budget
func NewPointLedger() PointLedger {
	l := PointLedger{
		Earned:    make(map[PointCategory]int),
		Spent:     make(map[PointCategory]int),
		Converted: make(map[PointCategory]int),
	}
	l.Earned[PointsAttribute] = StartingAttributePoints
	l.Earned[PointsSkill] = StartingSkillPoints
	return l
}

func (l *PointLedger) ensure() {
	if l.Earned == nil {
		l.Earned = make(map[PointCategory]int)
	}
	if l.Spent == nil {
		l.Spent = make(map[PointCategory]int)
	}
	if l.Converted == nil {
		l.Converted = make(map[PointCategory]int)
	}
}

func isCategory(cat PointCategory) bool {
	for _, c := range PointCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// hindranceBudget is what conversions may draw on: everything earned, including
// points later bought off, up to the cap.
func (l *PointLedger) hindranceBudget() int {
	total := l.Earned[PointsHindrance] + l.BoughtOff
	if total > HindrancePointCap {
		return HindrancePointCap
	}
	return total
}

func (l *PointLedger) conversionCost() int {
	cost := 0
	for cat, units := range l.Converted {
		cost += units * ExchangeRates[cat]
	}
	return cost
}

// Available returns the points left to spend in a category
func (l *PointLedger) Available(cat PointCategory) int {
	if cat == PointsHindrance {
		return l.hindranceBudget() - l.conversionCost()
	}
	return l.Earned[cat] + l.Converted[cat] - l.Spent[cat]
}

// Spend debits a category
func (l *PointLedger) Spend(cat PointCategory, amount int) error {
	if err := checkSpendable(cat, amount); err != nil {
		return err
	}
	if amount > l.Available(cat) {
		return dnderr.Validationf("not enough %s points: need %d, have %d", cat, amount, l.Available(cat)).
			WithMeta("category", string(cat))
	}
	l.ensure()
	l.Spent[cat] += amount
	return nil
}

// Refund credits back points spent in a category
func (l *PointLedger) Refund(cat PointCategory, amount int) error {
	if err := checkSpendable(cat, amount); err != nil {
		return err
	}
	if amount > l.Spent[cat] {
		return dnderr.Statef("cannot refund %d %s points, only %d spent", amount, cat, l.Spent[cat]).
			WithMeta("category", string(cat))
	}
	l.Spent[cat] -= amount
	return nil
}

func checkSpendable(cat PointCategory, amount int) error {
	if !isCategory(cat) {
		return dnderr.InvalidArgumentf("unknown point category %q", cat)
	}
	if cat == PointsHindrance {
		return dnderr.InvalidArgument("hindrance points are spent by converting them")
	}
	if amount <= 0 {
		return dnderr.InvalidArgumentf("amount must be positive, got %d", amount)
	}
	return nil
}

// Convert turns hindrance points into units of another category at the
// exchange rate. A negative amount gives back earlier conversions, which fails
// if the target category would then be overspent.
func (l *PointLedger) Convert(amount int, to PointCategory) error {
	rate, ok := ExchangeRates[to]
	if !ok {
		return dnderr.InvalidArgumentf("hindrance points cannot be converted to %q", to)
	}
	if amount == 0 {
		return dnderr.InvalidArgument("amount cannot be zero")
	}

	if amount > 0 {
		cost := amount * rate
		if cost > l.Available(PointsHindrance) {
			return dnderr.Validationf("not enough hindrance points: %d %s cost %d, have %d",
				amount, to, cost, l.Available(PointsHindrance)).
				WithMeta("category", string(to))
		}
		l.ensure()
		l.Converted[to] += amount
		return nil
	}

	back := -amount
	if back > l.Converted[to] {
		return dnderr.Validationf("only %d %s converted, cannot give back %d", l.Converted[to], to, back).
			WithMeta("category", string(to))
	}
	if l.Available(to) < back {
		return dnderr.Validationf("cannot give back %d %s: %d already spent", back, to, l.Spent[to]).
			WithMeta("category", string(to))
	}
	l.Converted[to] -= back
	return nil
}

// Earn adds points to a category
func (l *PointLedger) Earn(cat PointCategory, amount int) error {
	if !isCategory(cat) {
		return dnderr.InvalidArgumentf("unknown point category %q", cat)
	}
	if amount < 0 {
		return dnderr.InvalidArgumentf("amount cannot be negative, got %d", amount)
	}
	l.ensure()
	l.Earned[cat] += amount
	return nil
}

// Unearn takes earned points away. It fails if the points are already used.
func (l *PointLedger) Unearn(cat PointCategory, amount int) error {
	if !isCategory(cat) {
		return dnderr.InvalidArgumentf("unknown point category %q", cat)
	}
	if amount < 0 {
		return dnderr.InvalidArgumentf("amount cannot be negative, got %d", amount)
	}
	l.ensure()
	if amount > l.Earned[cat] {
		return dnderr.Statef("cannot unearn %d %s points, only %d earned", amount, cat, l.Earned[cat]).
			WithMeta("category", string(cat))
	}
	if l.Available(cat)-l.lostAvailability(cat, amount) < 0 {
		return dnderr.Validationf("those %s points are already spent", cat).WithMeta("category", string(cat))
	}
	l.Earned[cat] -= amount
	return nil
}

// lostAvailability is how much Available(cat) drops when amount is unearned
func (l *PointLedger) lostAvailability(cat PointCategory, amount int) int {
	if cat != PointsHindrance {
		return amount
	}
	before := l.hindranceBudget()
	l.Earned[cat] -= amount
	after := l.hindranceBudget()
	l.Earned[cat] += amount
	return before - after
}

// BuyOff retires earned hindrance points through an advance
func (l *PointLedger) BuyOff(amount int) error {
	l.ensure()
	if amount < 0 || amount > l.Earned[PointsHindrance] {
		return dnderr.Statef("cannot buy off %d hindrance points, %d earned", amount, l.Earned[PointsHindrance])
	}
	l.Earned[PointsHindrance] -= amount
	l.BoughtOff += amount
	return nil
}

// RestoreBoughtOff reverses BuyOff
func (l *PointLedger) RestoreBoughtOff(amount int) error {
	if amount < 0 || amount > l.BoughtOff {
		return dnderr.Statef("cannot restore %d hindrance points, %d bought off", amount, l.BoughtOff)
	}
	l.ensure()
	l.BoughtOff -= amount
	l.Earned[PointsHindrance] += amount
	return nil
}

// Validate checks the ledger invariant for every category
func (l *PointLedger) Validate() error {
	for _, cat := range PointCategories {
		if l.Available(cat) < 0 {
			return dnderr.Statef("%s points overspent by %d", cat, -l.Available(cat)).
				WithMeta("category", string(cat))
		}
	}
	return nil
}

// Clone returns a deep copy
func (l PointLedger) Clone() PointLedger {
	out := PointLedger{
		Earned:    make(map[PointCategory]int, len(l.Earned)),
		Spent:     make(map[PointCategory]int, len(l.Spent)),
		Converted: make(map[PointCategory]int, len(l.Converted)),
		BoughtOff: l.BoughtOff,
	}
	for k, v := range l.Earned {
		out.Earned[k] = v
	}
	for k, v := range l.Spent {
		out.Spent[k] = v
	}
	for k, v := range l.Converted {
		out.Converted[k] = v
	}
	return out
}
