package sequencer

import (
	"fmt"
	"math"
	"strings"
)

// Heuristic selects the lower-bound estimator used to rank partial orderings.
type Heuristic int

const (
	// MinEdge bounds the remaining cost by |remaining| times the cheapest edge among the
	// current track and the remaining tracks. Admissible and consistent.
	MinEdge Heuristic = iota
	// MinHop bounds the remaining cost by |remaining| times the cheapest edge leaving the
	// current track. It may overestimate once the remaining tracks sit closer to each
	// other than to the current track.
	MinHop
)

func (h Heuristic) String() string {
	switch h {
	case MinEdge:
		return "min-edge"
	case MinHop:
		return "min-hop"
	default:
		return fmt.Sprintf("heuristic(%d)", int(h))
	}
}

// ParseHeuristic accepts "min-edge" or "min-hop" (case-insensitive, "_" allowed).
func ParseHeuristic(s string) (Heuristic, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "", "min-edge":
		return MinEdge, nil
	case "min-hop":
		return MinHop, nil
	}
	return 0, configErrorf(nil, "unknown heuristic %q", s)
}

func (h Heuristic) valid() bool {
	return h == MinEdge || h == MinHop
}

// bound estimates the cost of visiting every node in rem starting from cur.
// cost(i, j) must be non-negative; rem must not contain cur.
func (h Heuristic) bound(cost func(i, j int) float64, cur int, rem []int) float64 {
	if len(rem) == 0 {
		return 0
	}
	cheapest := math.Inf(1)
	for _, r := range rem {
		cheapest = math.Min(cheapest, cost(cur, r))
	}
	if h == MinEdge {
		for i, a := range rem {
			for _, b := range rem[i+1:] {
				cheapest = math.Min(cheapest, cost(a, b))
			}
		}
	}
	return cheapest * float64(len(rem))
}
