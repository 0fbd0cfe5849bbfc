package sequencer

import (
	"container/heap"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// cancelCheckEvery is how many frontier pops pass between context checks.
const cancelCheckEvery = 256

// Result is a finished ordering plus search statistics.
type Result struct {
	Order     []domain.Track `json:"order"`
	Cost      float64        `json:"cost"`
	Expanded  int            `json:"expanded"`
	Generated int            `json:"generated"`
	Pruned    int            `json:"pruned"`
	Elapsed   time.Duration  `json:"elapsed"`
}

// Optimize returns the ordering of every track that starts with start and minimizes
// the summed transition cost, as far as the configured heuristic allows.
func (e *Engine) Optimize(ctx context.Context, start domain.Track) ([]domain.Track, error) {
	res, err := e.Search(ctx, start)
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

// Search runs the best-first search from start. Statistics are returned alongside
// ErrBudgetExceeded and ErrSearchCanceled so callers can report how far it got.
func (e *Engine) Search(ctx context.Context, start domain.Track) (Result, error) {
	si, ok := e.index[start.ID]
	if !ok {
		return Result{}, configErrorf(domain.ErrNotFound, "start track %q is not part of the track set", start.ID)
	}

	began := time.Now()
	n := len(e.tracks)
	scratch := make([]int, 0, n)
	var res Result

	rem := fullSet(n).without(si)
	root := &state{prefix: []int{si}, remaining: rem, h: e.estimate(si, rem, scratch)}

	pq := &frontier{ids: e.ids}
	heap.Push(pq, root)
	res.Generated++
	visited := newVisitedSet(e.opts.visit, e.ids)

	logger := e.opts.logger
	if logger != nil {
		logger.Debug("search started", "start", start.ID, "tracks", n,
			"heuristic", e.opts.heuristic, "visit", e.opts.visit, "bound", root.h)
	}

	pops := 0
	for pq.Len() > 0 {
		pops++
		if pops%cancelCheckEvery == 1 {
			if err := ctx.Err(); err != nil {
				res.Elapsed = time.Since(began)
				return res, fmt.Errorf("%w: %w", ErrSearchCanceled, err)
			}
		}

		s := heap.Pop(pq).(*state)
		if len(s.prefix) == n {
			res.Order = e.order(s.prefix)
			res.Cost = s.g
			res.Elapsed = time.Since(began)
			if logger != nil {
				logger.Debug("search finished", "start", start.ID, "cost", res.Cost,
					"expanded", res.Expanded, "generated", res.Generated, "pruned", res.Pruned,
					"elapsed", res.Elapsed)
			}
			return res, nil
		}

		if visited.dominated(s) {
			res.Pruned++
			continue
		}
		if e.opts.maxExpansions > 0 && res.Expanded >= e.opts.maxExpansions {
			res.Elapsed = time.Since(began)
			return res, fmt.Errorf("%w: %d states expanded", ErrBudgetExceeded, res.Expanded)
		}
		visited.mark(s)
		res.Expanded++
		if e.opts.onExpand != nil {
			e.opts.onExpand(s)
		}
		if logger != nil && res.Expanded%e.opts.progressEvery == 0 {
			logger.Debug("search progress", "start", start.ID, "expanded", res.Expanded,
				"frontier", pq.Len(), "depth", len(s.prefix), "f", s.f())
		}

		cur := s.current()
		for _, t := range s.remaining.members(make([]int, 0, n)) {
			next := s.remaining.without(t)
			child := &state{
				prefix:    append(slices.Clip(s.prefix), t),
				remaining: next,
				g:         s.g + e.costs[cur][t],
			}
			if visited.dominated(child) {
				res.Pruned++
				continue
			}
			child.h = e.estimate(t, next, scratch)
			heap.Push(pq, child)
			res.Generated++
		}
	}

	res.Elapsed = time.Since(began)
	return res, ErrSearchExhausted
}
