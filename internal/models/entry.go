package models

import "fmt"

// Entry is one player's card for a week: a favorite/underdog pick per game and
// the confidence points attached to it, both aligned to the slate order.
type Entry struct {
	Picks      []bool `json:"picks"`
	Confidence []int  `json:"confidence"`
}

// Clone returns a deep copy.
func (e Entry) Clone() Entry {
	return Entry{
		Picks:      append([]bool(nil), e.Picks...),
		Confidence: append([]int(nil), e.Confidence...),
	}
}

// ValidateEntry checks that the entry covers n games and that its confidence
// values are a permutation of 1..n.
func ValidateEntry(e Entry, n int) error {
	if len(e.Picks) != n {
		return fmt.Errorf("%w: %d picks for %d games", ErrInvalidConfidence, len(e.Picks), n)
	}
	if len(e.Confidence) != n {
		return fmt.Errorf("%w: %d confidence values for %d games", ErrInvalidConfidence, len(e.Confidence), n)
	}
	seen := make([]bool, n+1)
	for i, c := range e.Confidence {
		if c < 1 || c > n {
			return fmt.Errorf("%w: value %d at game %d outside 1..%d", ErrInvalidConfidence, c, i, n)
		}
		if seen[c] {
			return fmt.Errorf("%w: value %d used twice", ErrInvalidConfidence, c)
		}
		seen[c] = true
	}
	return nil
}
