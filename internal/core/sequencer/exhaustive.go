package sequencer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// MaxExhaustiveTracks is the largest track set Exhaustive accepts ((n-1)! orderings).
const MaxExhaustiveTracks = 11

// Exhaustive enumerates every ordering that starts with start and returns the cheapest.
// It is a reference for small sets, used to verify Search results.
func (e *Engine) Exhaustive(ctx context.Context, start domain.Track) (Result, error) {
	si, ok := e.index[start.ID]
	if !ok {
		return Result{}, configErrorf(domain.ErrNotFound, "start track %q is not part of the track set", start.ID)
	}
	if len(e.tracks) > MaxExhaustiveTracks {
		return Result{}, configErrorf(nil, "exhaustive search supports at most %d tracks, got %d",
			MaxExhaustiveTracks, len(e.tracks))
	}

	began := time.Now()
	rest := fullSet(len(e.tracks)).without(si).members(nil)
	best, order, visited, err := e.cheapestCompletion(ctx, si, rest)
	if err != nil {
		return Result{Generated: visited, Elapsed: time.Since(began)}, err
	}
	prefix := append([]int{si}, order...)
	return Result{
		Order:     e.order(prefix),
		Cost:      best,
		Generated: visited,
		Elapsed:   time.Since(began),
	}, nil
}

// cheapestCompletion returns the minimal cost of visiting every index in rest from cur,
// the ordering achieving it, and the number of orderings evaluated.
func (e *Engine) cheapestCompletion(ctx context.Context, cur int, rest []int) (float64, []int, int, error) {
	if len(rest) == 0 {
		return 0, nil, 1, nil
	}
	best := math.Inf(1)
	var bestOrder []int
	count := 0
	var ctxErr error
	permute(append([]int(nil), rest...), func(p []int) bool {
		count++
		if count%cancelCheckEvery == 1 {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				return false
			}
		}
		total := e.costs[cur][p[0]]
		for i := 0; i+1 < len(p); i++ {
			total += e.costs[p[i]][p[i+1]]
		}
		if total < best {
			best = total
			bestOrder = append(bestOrder[:0], p...)
		}
		return true
	})
	if ctxErr != nil {
		return 0, nil, count, fmt.Errorf("%w: %w", ErrSearchCanceled, ctxErr)
	}
	return best, bestOrder, count, nil
}

// permute calls fn with every permutation of p using Heap's algorithm.
// fn must not retain p; returning false stops the enumeration.
func permute(p []int, fn func([]int) bool) {
	n := len(p)
	if !fn(p) {
		return
	}
	c := make([]int, n)
	for i := 0; i < n; {
		if c[i] < i {
			if i%2 == 0 {
				p[0], p[i] = p[i], p[0]
			} else {
				p[c[i]], p[i] = p[i], p[c[i]]
			}
			if !fn(p) {
				return
			}
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
}
