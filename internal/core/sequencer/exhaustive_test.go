package sequencer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

func TestPermute_HeapsAlgorithm(t *testing.T) {
	seen := map[[4]int]bool{}
	permute([]int{0, 1, 2, 3}, func(p []int) bool {
		seen[[4]int(p)] = true
		return true
	})
	require.Len(t, seen, 24)

	calls := 0
	permute([]int{0, 1, 2}, func([]int) bool {
		calls++
		return calls < 2
	})
	require.Equal(t, 2, calls, "returning false stops the enumeration")

	calls = 0
	permute(nil, func(p []int) bool {
		calls++
		require.Empty(t, p)
		return true
	})
	require.Equal(t, 1, calls)
}

func TestExhaustive_DemoScenario(t *testing.T) {
	tr := demoTracks()
	e := mustEngine(t, tr)

	res, err := e.Exhaustive(context.Background(), tr[0])
	require.NoError(t, err)
	require.Equal(t, []string{"1", "4", "2", "3"}, ids(res.Order))
	require.InDelta(t, 0.323, res.Cost, eps)
	require.Equal(t, 6, res.Generated)
}

func TestExhaustive_SingleTrack(t *testing.T) {
	only := track("solo", 100, 0.5, 0.5, 5, 0)
	e := mustEngine(t, []domain.Track{only})
	res, err := e.Exhaustive(context.Background(), only)
	require.NoError(t, err)
	require.Equal(t, []string{"solo"}, ids(res.Order))
	require.Zero(t, res.Cost)
}

func TestExhaustive_RejectsLargeSets(t *testing.T) {
	tracks := randomTracks(8, MaxExhaustiveTracks+1)
	e := mustEngine(t, tracks)

	_, err := e.Exhaustive(context.Background(), tracks[0])
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}
