package sequencer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

func TestCheckAdmissible_DemoState(t *testing.T) {
	tr := demoTracks()
	rem := []domain.Track{tr[1], tr[3]}

	check, err := mustEngine(t, tr).CheckAdmissible(context.Background(), tr[0], rem)
	require.NoError(t, err)
	require.InDelta(t, 0.1855, check.Exact, eps)
	require.True(t, check.Admissible())

	check, err = mustEngine(t, tr, WithHeuristic(MinHop)).CheckAdmissible(context.Background(), tr[0], rem)
	require.NoError(t, err)
	require.InDelta(t, 0.1855, check.Exact, eps)
	require.False(t, check.Admissible(), "min-hop estimate %v should exceed %v", check.Estimate, check.Exact)
}

func TestCheckAdmissible_EmptyRemaining(t *testing.T) {
	tr := demoTracks()
	check, err := mustEngine(t, tr).CheckAdmissible(context.Background(), tr[2], nil)
	require.NoError(t, err)
	require.Zero(t, check.Estimate)
	require.Zero(t, check.Exact)
	require.True(t, check.Admissible())
}

func TestCheckAdmissible_RandomSetsAtSizeLimit(t *testing.T) {
	for seed := uint64(20); seed < 25; seed++ {
		tracks := randomTracks(seed, MaxAdmissibleCheck+1)
		e := mustEngine(t, tracks)

		check, err := e.CheckAdmissible(context.Background(), tracks[0], tracks[1:])
		require.NoError(t, err)
		require.True(t, check.Admissible(), "seed %d: %v > %v", seed, check.Estimate, check.Exact)
	}
}

func TestCheckAdmissible_InvalidInput(t *testing.T) {
	tr := demoTracks()
	e := mustEngine(t, tr)
	outsider := track("x", 100, 0.5, 0.5, 0, 0)

	tests := []struct {
		name      string
		current   domain.Track
		remaining []domain.Track
		wantErr   error
	}{
		{"unknown current", outsider, tr[1:], domain.ErrNotFound},
		{"unknown remaining", tr[0], []domain.Track{outsider}, domain.ErrNotFound},
		{"current in remaining", tr[0], tr, domain.ErrDuplicateTrack},
		{"duplicate remaining", tr[0], []domain.Track{tr[1], tr[1]}, domain.ErrDuplicateTrack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CheckAdmissible(context.Background(), tt.current, tt.remaining)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	big := randomTracks(7, MaxAdmissibleCheck+2)
	_, err := mustEngine(t, big).CheckAdmissible(context.Background(), big[0], big[1:])
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}
