package sequencer

import (
	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// Engine sequences a fixed track set. It precomputes the pairwise cost matrix once
// and is read-only afterwards.
type Engine struct {
	tracks []domain.Track
	ids    []string
	index  map[string]int
	model  CostModel
	costs  [][]float64
	opts   options
}

// New validates tracks and options and builds an Engine.
// Tracks must be non-empty, individually valid and unique by ID.
func New(tracks []domain.Track, opts ...Option) (*Engine, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, configErrorf(nil, "empty track collection")
	}

	e := &Engine{
		tracks: make([]domain.Track, len(tracks)),
		ids:    make([]string, len(tracks)),
		index:  make(map[string]int, len(tracks)),
		model:  NewCostModel(cfg.weights),
		opts:   cfg,
	}
	copy(e.tracks, tracks)
	for i, t := range e.tracks {
		if err := t.Validate(); err != nil {
			return nil, configErrorf(err, "track %d", i)
		}
		if _, dup := e.index[t.ID]; dup {
			return nil, configErrorf(domain.ErrDuplicateTrack, "track id %q appears more than once", t.ID)
		}
		e.index[t.ID] = i
		e.ids[i] = t.ID
	}

	n := len(e.tracks)
	e.costs = make([][]float64, n)
	for i := range e.costs {
		e.costs[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := e.model.Cost(e.tracks[i], e.tracks[j])
			e.costs[i][j] = c
			e.costs[j][i] = c
		}
	}
	return e, nil
}

// Len returns the number of tracks.
func (e *Engine) Len() int { return len(e.tracks) }

// Tracks returns a copy of the track set in construction order.
func (e *Engine) Tracks() []domain.Track {
	out := make([]domain.Track, len(e.tracks))
	copy(out, e.tracks)
	return out
}

// Track looks up a member by ID.
func (e *Engine) Track(id string) (domain.Track, bool) {
	i, ok := e.index[id]
	if !ok {
		return domain.Track{}, false
	}
	return e.tracks[i], true
}

// Model returns the cost model the engine was built with.
func (e *Engine) Model() CostModel { return e.model }

// Weights returns the weight vector in use.
func (e *Engine) Weights() domain.Weights { return e.model.Weights }

// Heuristic returns the configured estimator.
func (e *Engine) Heuristic() Heuristic { return e.opts.heuristic }

// VisitMode returns the configured dedup strategy.
func (e *Engine) VisitMode() VisitMode { return e.opts.visit }

// Cost returns the transition cost between any two tracks, members or not.
func (e *Engine) Cost(a, b domain.Track) float64 {
	return e.model.Cost(a, b)
}

// TotalCost sums Cost over consecutive pairs of seq.
func (e *Engine) TotalCost(seq []domain.Track) float64 {
	return e.model.TotalCost(seq)
}

// Estimate applies the configured heuristic to current and the unplaced tracks.
// It returns 0 when remaining is empty.
func (e *Engine) Estimate(current domain.Track, remaining []domain.Track) float64 {
	nodes := make([]domain.Track, 0, len(remaining)+1)
	nodes = append(nodes, current)
	nodes = append(nodes, remaining...)
	rem := make([]int, len(remaining))
	for i := range rem {
		rem[i] = i + 1
	}
	cost := func(i, j int) float64 { return e.model.Cost(nodes[i], nodes[j]) }
	return e.opts.heuristic.bound(cost, 0, rem)
}

func (e *Engine) cost(i, j int) float64 { return e.costs[i][j] }

func (e *Engine) estimate(cur int, rem trackSet, scratch []int) float64 {
	return e.opts.heuristic.bound(e.cost, cur, rem.members(scratch[:0]))
}

func (e *Engine) order(prefix []int) []domain.Track {
	out := make([]domain.Track, len(prefix))
	for i, idx := range prefix {
		out[i] = e.tracks[idx]
	}
	return out
}
