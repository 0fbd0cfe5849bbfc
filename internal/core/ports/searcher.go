package ports

import (
	"context"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
)

// StartOutcome is the result of searching from one start track.
type StartOutcome struct {
	Start  domain.Track
	Result sequencer.Result
	Err    error
}

// StartSearcher runs one search per start track, possibly in parallel, and returns
// the outcomes in the order of starts.
type StartSearcher interface {
	SearchStarts(ctx context.Context, e *sequencer.Engine, starts []domain.Track) []StartOutcome
}
