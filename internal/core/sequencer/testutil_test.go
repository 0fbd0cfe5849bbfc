package sequencer

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

const eps = 1e-9

func track(id string, tempo, energy, dance float64, key, mode int) domain.Track {
	return domain.Track{
		ID:    id,
		Title: "Track " + id,
		Features: domain.AudioFeatures{
			Tempo: tempo, Energy: energy, Danceability: dance, Key: key, Mode: mode,
		},
	}
}

// demoTracks is the four-track scenario: T1..T4.
func demoTracks() []domain.Track {
	return []domain.Track{
		track("1", 72, 0.9, 0.7, 0, 1),
		track("2", 115, 0.8, 0.9, 4, 1),
		track("3", 125, 0.7, 0.6, 7, 1),
		track("4", 117, 0.8, 0.9, 2, 1),
	}
}

// randomTracks returns n valid tracks drawn from a seeded generator.
func randomTracks(seed uint64, n int) []domain.Track {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]domain.Track, n)
	for i := range out {
		out[i] = track(
			fmt.Sprintf("r%02d", i),
			60+r.Float64()*120,
			r.Float64(),
			r.Float64(),
			r.IntN(12),
			r.IntN(2),
		)
	}
	return out
}

func ids(ts []domain.Track) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func mustEngine(t *testing.T, tracks []domain.Track, opts ...Option) *Engine {
	t.Helper()
	e, err := New(tracks, opts...)
	require.NoError(t, err)
	return e
}

// requirePermutation asserts order contains every track once and begins with start.
func requirePermutation(t *testing.T, tracks, order []domain.Track, start domain.Track) {
	t.Helper()
	require.Len(t, order, len(tracks))
	require.Equal(t, start.ID, order[0].ID)
	seen := make(map[string]bool, len(order))
	for _, tr := range order {
		require.False(t, seen[tr.ID], "duplicate track %s", tr.ID)
		seen[tr.ID] = true
	}
	for _, tr := range tracks {
		require.True(t, seen[tr.ID], "missing track %s", tr.ID)
	}
}

func reversed(ts []domain.Track) []domain.Track {
	out := make([]domain.Track, len(ts))
	for i, t := range ts {
		out[len(ts)-1-i] = t
	}
	return out
}
