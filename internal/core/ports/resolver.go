package ports

import (
	"errors"
	"fmt"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// ErrNoConfidentMatch indicates no track matched a lookup query well enough.
var ErrNoConfidentMatch = errors.New("no confident match")

// NoConfidentMatchError provides context for a failed track lookup.
type NoConfidentMatchError struct {
	Query string
	Best  string
	Score float64
}

func (e NoConfidentMatchError) Error() string {
	if e.Query == "" {
		return ErrNoConfidentMatch.Error()
	}
	if e.Best == "" {
		return fmt.Sprintf("no confident match found for %q", e.Query)
	}
	return fmt.Sprintf("no confident match found for %q (closest %q, score %.2f)", e.Query, e.Best, e.Score)
}

func (e NoConfidentMatchError) Is(target error) bool {
	return target == ErrNoConfidentMatch
}

// TrackResolver finds the member of tracks a free-form query refers to, such as
// "Title - Artist" or a partial title.
type TrackResolver interface {
	Resolve(query string, tracks []domain.Track) (domain.Track, error)
}
