package suggest

import (
	"math/rand/v2"

	"github.com/doeshing/nbai-go/internal/domain"
)

// Selector performs weighted random sampling over a trigger's suggestion
// list. The draw source is injectable so tests stay deterministic.
type Selector struct {
	intn func(n int) int
}

// NewSelector returns a selector backed by the default random source.
func NewSelector() *Selector {
	return &Selector{intn: rand.IntN}
}

// NewSelectorWithSource returns a selector using a custom draw function.
// intn must return a value in [0, n).
func NewSelectorWithSource(intn func(n int) int) *Selector {
	return &Selector{intn: intn}
}

// Select filters out disliked snippets and draws from the rest with
// probability proportional to score. It walks the filtered list in order,
// subtracting each score from the draw; the first suggestion at which the
// remainder drops to zero or below wins, so earlier entries are slightly
// favored at exact boundaries. A single eligible suggestion is always
// returned.
func (s *Selector) Select(suggestions []domain.Suggestion, disliked func(snippet string) bool) (domain.Suggestion, bool) {
	eligible := make([]domain.Suggestion, 0, len(suggestions))
	total := 0
	for _, sg := range suggestions {
		if disliked != nil && disliked(sg.Snippet) {
			continue
		}
		eligible = append(eligible, sg)
		total += sg.Score
	}
	if len(eligible) == 0 || total <= 0 {
		return domain.Suggestion{}, false
	}

	r := s.intn(total)
	for _, sg := range eligible {
		r -= sg.Score
		if r <= 0 {
			return sg, true
		}
	}
	// Unreachable with a well-behaved draw source; keep the walk total.
	return eligible[len(eligible)-1], true
}
