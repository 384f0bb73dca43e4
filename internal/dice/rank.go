package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Ladder is the ordered set of die sizes a trait steps through before it
// starts accumulating "+N" on top of a d12.
var Ladder = []int{4, 6, 8, 10, 12}

const (
	// MinSize is the smallest die on the ladder
	MinSize = 4

	// MaxSize is the top of the ladder; further steps grow the modifier
	MaxSize = 12
)

// Rank is a step on the die ladder, d4 through d12+N.
// A nil *Rank stands for an untrained skill.
type Rank struct {
	Size     int
	Modifier int
}

// New returns the rank for a bare die size, or false if the size is not on the ladder.
func New(size int) (Rank, bool) {
	return WithModifier(size, 0)
}

// WithModifier returns a rank with a "+n" modifier. The size must be on the
// ladder, and only a d12 may carry a modifier.
func WithModifier(size, n int) (Rank, bool) {
	r := Rank{Size: size, Modifier: n}
	if !r.IsValid() {
		return Rank{}, false
	}
	return r, true
}

// MustNew is New for package-level tables and tests. It panics on an invalid size.
func MustNew(size int) Rank {
	r, ok := New(size)
	if !ok {
		panic(fmt.Sprintf("dice: invalid die size %d", size))
	}
	return r
}

// MustWithModifier is WithModifier that panics on an invalid size.
func MustWithModifier(size, n int) Rank {
	r, ok := WithModifier(size, n)
	if !ok {
		panic(fmt.Sprintf("dice: invalid die d%d+%d", size, n))
	}
	return r
}

// D4 is the bottom of the ladder
func D4() Rank { return Rank{Size: 4} }

func ladderIndex(size int) int {
	for i, s := range Ladder {
		if s == size {
			return i
		}
	}
	return -1
}

// IsValid reports whether the size is on the ladder and the modifier is
// only carried by a d12.
func (r Rank) IsValid() bool {
	if ladderIndex(r.Size) < 0 || r.Modifier < 0 {
		return false
	}
	return r.Modifier == 0 || r.Size == MaxSize
}

// Step is the position of the rank on the unbounded ladder: d4 is 0, d12 is 4, d12+1 is 5.
func (r Rank) Step() int {
	return ladderIndex(r.Size) + r.Modifier
}

// Compare orders by ladder position first, then by modifier.
// It returns -1, 0 or 1.
func (r Rank) Compare(other Rank) int {
	ri, oi := ladderIndex(r.Size), ladderIndex(other.Size)
	switch {
	case ri < oi:
		return -1
	case ri > oi:
		return 1
	case r.Modifier < other.Modifier:
		return -1
	case r.Modifier > other.Modifier:
		return 1
	}
	return 0
}

// Less reports whether r sorts before other
func (r Rank) Less(other Rank) bool {
	return r.Compare(other) < 0
}

// AtLeast reports whether r >= other
func (r Rank) AtLeast(other Rank) bool {
	return r.Compare(other) >= 0
}

// Increment advances one step: 4→6→8→10→12, then d12+1, d12+2, ...
func (r Rank) Increment() Rank {
	if r.Size >= MaxSize {
		return Rank{Size: MaxSize, Modifier: r.Modifier + 1}
	}
	return Rank{Size: Ladder[ladderIndex(r.Size)+1]}
}

// Decrement is the inverse of Increment. It fails at d4.
func (r Rank) Decrement() (Rank, bool) {
	if r.Size == MaxSize && r.Modifier > 0 {
		return Rank{Size: MaxSize, Modifier: r.Modifier - 1}, true
	}
	i := ladderIndex(r.Size)
	if i <= 0 {
		return Rank{}, false
	}
	return Rank{Size: Ladder[i-1]}, true
}

// IsMaxed reports whether the purchasable ceiling (a bare d12) has been reached
func (r Rank) IsMaxed() bool {
	return r.Size >= MaxSize
}

// Half is half the die size plus half the modifier, rounded down.
// Parry and Toughness are built from it.
func (r Rank) Half() int {
	return r.Size/2 + r.Modifier/2
}

func (r Rank) String() string {
	if r.Modifier > 0 {
		return fmt.Sprintf("d%d+%d", r.Size, r.Modifier)
	}
	return fmt.Sprintf("d%d", r.Size)
}

// MarshalText renders the rank as "d8" or "d12+1"
func (r Rank) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid die rank %d+%d", r.Size, r.Modifier)
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses the output of MarshalText
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Parse reads "d8", "D10", "12" or "d12+2".
func Parse(s string) (Rank, error) {
	raw := strings.TrimSpace(strings.ToLower(s))
	raw = strings.TrimPrefix(raw, "d")

	sizePart, modPart, hasMod := strings.Cut(raw, "+")
	size, err := strconv.Atoi(sizePart)
	if err != nil {
		return Rank{}, fmt.Errorf("invalid die rank %q", s)
	}

	mod := 0
	if hasMod {
		mod, err = strconv.Atoi(modPart)
		if err != nil {
			return Rank{}, fmt.Errorf("invalid die modifier in %q", s)
		}
	}

	r, ok := WithModifier(size, mod)
	if !ok {
		return Rank{}, fmt.Errorf("invalid die rank %q", s)
	}
	return r, nil
}

// IncrementUntrained steps a possibly untrained trait: nil becomes d4.
func IncrementUntrained(r *Rank) Rank {
	if r == nil {
		return D4()
	}
	return r.Increment()
}

// DecrementToUntrained steps a trait down; a d4 drops back to untrained (nil).
func DecrementToUntrained(r Rank) *Rank {
	lower, ok := r.Decrement()
	if !ok {
		return nil
	}
	return &lower
}

// Ptr returns a pointer to a copy of r
func Ptr(r Rank) *Rank {
	return &r
}

// Equal compares two possibly untrained ranks
func Equal(a, b *Rank) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
