package sequencer

import (
	"math"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// tempoScale maps a BPM difference onto roughly the same scale as the unit-interval features.
const tempoScale = 200.0

// CostModel computes the weighted transition cost between two tracks.
type CostModel struct {
	Weights domain.Weights
}

// NewCostModel returns a model using w as given.
func NewCostModel(w domain.Weights) CostModel {
	return CostModel{Weights: w}
}

// Breakdown is the per-dimension contribution to one transition's cost.
// Each component is already multiplied by its weight.
type Breakdown struct {
	Tempo        float64 `json:"tempo"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Key          float64 `json:"key"`
	Mode         float64 `json:"mode"`
	Total        float64 `json:"total"`
}

// Cost returns the weighted distance from a to b. It is symmetric, non-negative and
// zero when the two tracks share every attribute.
func (m CostModel) Cost(a, b domain.Track) float64 {
	return m.Breakdown(a, b).Total
}

// Breakdown returns the weighted per-dimension distances from a to b.
func (m CostModel) Breakdown(a, b domain.Track) Breakdown {
	fa, fb := a.Features, b.Features
	w := m.Weights
	bd := Breakdown{
		Tempo:        w.Tempo * math.Abs(fa.Tempo-fb.Tempo) / tempoScale,
		Energy:       w.Energy * math.Abs(fa.Energy-fb.Energy),
		Danceability: w.Danceability * math.Abs(fa.Danceability-fb.Danceability),
		Key:          w.Key * keyDistance(fa.Key, fb.Key),
		Mode:         w.Mode * math.Abs(float64(fa.Mode-fb.Mode)),
	}
	bd.Total = bd.Tempo + bd.Energy + bd.Danceability + bd.Key + bd.Mode
	return bd
}

// TotalCost sums the transition cost over consecutive pairs of seq.
func (m CostModel) TotalCost(seq []domain.Track) float64 {
	total := 0.0
	for i := 0; i+1 < len(seq); i++ {
		total += m.Cost(seq[i], seq[i+1])
	}
	return total
}

// keyDistance is the circular pitch-class distance scaled to [0, 0.5].
func keyDistance(a, b int) float64 {
	up := mod12(a - b)
	down := mod12(b - a)
	return float64(min(up, down)) / 12.0
}

func mod12(v int) int {
	return ((v % 12) + 12) % 12
}
