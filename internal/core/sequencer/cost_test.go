package sequencer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

func TestCostModel_DemoPairs(t *testing.T) {
	tr := demoTracks()
	m := NewCostModel(domain.DefaultWeights())

	cases := []struct {
		a, b int
		want float64
	}{
		{0, 1, 0.1795},
		{0, 2, 0.212},
		{0, 3, 0.1575},
		{1, 2, 0.1375},
		{1, 3, 0.028},
		{2, 3, 0.1595},
	}
	for _, c := range cases {
		require.InDelta(t, c.want, m.Cost(tr[c.a], tr[c.b]), eps, "cost(%s,%s)", tr[c.a].ID, tr[c.b].ID)
	}
}

func TestCostModel_SymmetricAndZeroOnSelf(t *testing.T) {
	m := NewCostModel(domain.DefaultWeights())
	tracks := append(demoTracks(), randomTracks(7, 12)...)
	for _, a := range tracks {
		require.Zero(t, m.Cost(a, a), "cost(%s,%s)", a.ID, a.ID)
		for _, b := range tracks {
			ab, ba := m.Cost(a, b), m.Cost(b, a)
			require.Equal(t, ab, ba, "cost(%s,%s) != cost(%s,%s)", a.ID, b.ID, b.ID, a.ID)
			require.GreaterOrEqual(t, ab, 0.0)
		}
	}
}

func TestCostModel_ZeroOnlyForIdenticalAttributes(t *testing.T) {
	m := NewCostModel(domain.DefaultWeights())
	a := track("a", 120, 0.5, 0.5, 3, 0)
	b := a
	b.ID = "b"
	b.Title = "other"
	require.Zero(t, m.Cost(a, b))

	b.Features.Key = 4
	require.Greater(t, m.Cost(a, b), 0.0)
}

func TestKeyDistance_Circular(t *testing.T) {
	cases := []struct {
		a, b int
		want float64
	}{
		{0, 0, 0},
		{0, 1, 1.0 / 12},
		{0, 11, 1.0 / 12},
		{11, 0, 1.0 / 12},
		{0, 6, 6.0 / 12},
		{2, 9, 5.0 / 12},
		{0, 7, 5.0 / 12},
	}
	for _, c := range cases {
		require.InDelta(t, c.want, keyDistance(c.a, c.b), eps, "keyDistance(%d,%d)", c.a, c.b)
	}
}

func TestCostModel_BreakdownSumsToCost(t *testing.T) {
	m := NewCostModel(domain.Weights{Tempo: 1, Energy: 2, Danceability: 3, Key: 4, Mode: 5})
	a := track("a", 100, 0.2, 0.3, 1, 0)
	b := track("b", 150, 0.7, 0.1, 10, 1)

	bd := m.Breakdown(a, b)
	require.InDelta(t, 50.0/200, bd.Tempo, eps)
	require.InDelta(t, 2*0.5, bd.Energy, eps)
	require.InDelta(t, 3*0.2, bd.Danceability, eps)
	require.InDelta(t, 4*3.0/12, bd.Key, eps)
	require.InDelta(t, 5.0, bd.Mode, eps)
	require.InDelta(t, bd.Tempo+bd.Energy+bd.Danceability+bd.Key+bd.Mode, bd.Total, eps)
	require.Equal(t, bd.Total, m.Cost(a, b))
}

func TestCostModel_TotalCost(t *testing.T) {
	m := NewCostModel(domain.DefaultWeights())
	tr := demoTracks()

	require.Zero(t, m.TotalCost(nil))
	require.Zero(t, m.TotalCost(tr[:1]))

	manual := 0.0
	for i := 0; i+1 < len(tr); i++ {
		manual += m.Cost(tr[i], tr[i+1])
	}
	require.Equal(t, manual, m.TotalCost(tr))
}
