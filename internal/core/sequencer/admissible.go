package sequencer

import (
	"context"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// MaxAdmissibleCheck is the largest remaining set CheckAdmissible brute-forces.
const MaxAdmissibleCheck = 9

// Admissibility compares the estimate at one search state with the exact cost of its
// cheapest completion.
type Admissibility struct {
	Estimate float64
	Exact    float64
}

// Admissible reports whether the estimate does not exceed the exact completion cost,
// allowing for float rounding.
func (a Admissibility) Admissible() bool {
	return a.Estimate <= a.Exact+1e-9
}

// CheckAdmissible evaluates the configured heuristic at (current, remaining) and
// enumerates every ordering of remaining to find the true completion cost.
// remaining must be distinct members of the track set, exclude current, and hold at
// most MaxAdmissibleCheck tracks.
func (e *Engine) CheckAdmissible(ctx context.Context, current domain.Track, remaining []domain.Track) (Admissibility, error) {
	ci, ok := e.index[current.ID]
	if !ok {
		return Admissibility{}, configErrorf(domain.ErrNotFound, "track %q is not part of the track set", current.ID)
	}
	if len(remaining) > MaxAdmissibleCheck {
		return Admissibility{}, configErrorf(nil, "admissibility check supports at most %d remaining tracks, got %d",
			MaxAdmissibleCheck, len(remaining))
	}

	rest := make([]int, 0, len(remaining))
	seen := map[int]bool{ci: true}
	for _, t := range remaining {
		i, ok := e.index[t.ID]
		if !ok {
			return Admissibility{}, configErrorf(domain.ErrNotFound, "track %q is not part of the track set", t.ID)
		}
		if seen[i] {
			return Admissibility{}, configErrorf(domain.ErrDuplicateTrack, "track %q listed twice", t.ID)
		}
		seen[i] = true
		rest = append(rest, i)
	}

	exact, _, _, err := e.cheapestCompletion(ctx, ci, rest)
	if err != nil {
		return Admissibility{}, err
	}
	return Admissibility{
		Estimate: e.opts.heuristic.bound(e.cost, ci, rest),
		Exact:    exact,
	}, nil
}
