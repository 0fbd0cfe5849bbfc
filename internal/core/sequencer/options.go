package sequencer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// VisitMode selects how already-expanded partial orderings are recognized.
type VisitMode int

const (
	// VisitByRemainingSet keys states by (current track, unordered remaining set) and
	// discards a state unless its accumulated cost beats every expanded equivalent.
	VisitByRemainingSet VisitMode = iota
	// VisitByPrefix keys states by the exact ordered prefix. No two paths collide, so
	// nothing is pruned.
	VisitByPrefix
)

func (v VisitMode) String() string {
	switch v {
	case VisitByRemainingSet:
		return "remaining-set"
	case VisitByPrefix:
		return "prefix"
	default:
		return fmt.Sprintf("visit(%d)", int(v))
	}
}

// ParseVisitMode accepts "remaining-set" or "prefix".
func ParseVisitMode(s string) (VisitMode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "", "remaining-set", "set":
		return VisitByRemainingSet, nil
	case "prefix", "path":
		return VisitByPrefix, nil
	}
	return 0, configErrorf(nil, "unknown visit mode %q", s)
}

// defaultProgressEvery is how many expansions pass between debug progress lines.
const defaultProgressEvery = 50000

type options struct {
	weights       domain.Weights
	heuristic     Heuristic
	visit         VisitMode
	maxExpansions int
	logger        *log.Logger
	progressEvery int

	onExpand func(s *state)
}

func defaultOptions() options {
	return options{
		weights:       domain.DefaultWeights(),
		heuristic:     MinEdge,
		visit:         VisitByRemainingSet,
		progressEvery: defaultProgressEvery,
	}
}

// Option customizes an Engine.
type Option func(*options)

// WithWeights replaces the default weight vector. w is used as given, so all-zero
// weights make every ordering cost 0.
func WithWeights(w domain.Weights) Option {
	return func(o *options) { o.weights = w }
}

// WithHeuristic selects the lower-bound estimator.
func WithHeuristic(h Heuristic) Option {
	return func(o *options) { o.heuristic = h }
}

// WithVisitMode selects how expanded states are deduplicated.
func WithVisitMode(v VisitMode) Option {
	return func(o *options) { o.visit = v }
}

// WithMaxExpansions caps the number of states expanded per search; 0 means unlimited.
func WithMaxExpansions(n int) Option {
	return func(o *options) { o.maxExpansions = n }
}

// WithLogger enables debug logging of search start, progress and completion.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProgressEvery sets how many expansions pass between progress log lines.
func WithProgressEvery(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.progressEvery = n
		}
	}
}

func (o options) validate() error {
	if err := o.weights.Validate(); err != nil {
		return configErrorf(err, "weights")
	}
	if !o.heuristic.valid() {
		return configErrorf(nil, "unknown heuristic %d", int(o.heuristic))
	}
	if o.visit != VisitByRemainingSet && o.visit != VisitByPrefix {
		return configErrorf(nil, "unknown visit mode %d", int(o.visit))
	}
	if o.maxExpansions < 0 {
		return configErrorf(nil, "max expansions must be non-negative, got %d", o.maxExpansions)
	}
	return nil
}
