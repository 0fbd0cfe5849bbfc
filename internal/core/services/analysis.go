package services

import (
	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
)

// Transition is the cost of moving from one track to the next.
type Transition struct {
	FromID    string              `json:"from"`
	ToID      string              `json:"to"`
	Breakdown sequencer.Breakdown `json:"breakdown"`
}

// Alternative is another ordering of the same tracks and its total cost.
type Alternative struct {
	Label string   `json:"label"`
	Order []string `json:"order"`
	Cost  float64  `json:"cost"`
}

// Analysis describes an ordering: its tracks, averages, transitions and how it
// compares with other orderings.
type Analysis struct {
	Name         string               `json:"name"`
	Tracks       []domain.Track       `json:"tracks"`
	Averages     domain.AudioFeatures `json:"averages"`
	Transitions  []Transition         `json:"transitions"`
	Total        float64              `json:"total_cost"`
	Average      float64              `json:"average_cost"`
	Alternatives []Alternative        `json:"alternatives,omitempty"`

	model sequencer.CostModel
}

// NewAnalysis measures order with model.
func NewAnalysis(model sequencer.CostModel, name string, order []domain.Track) Analysis {
	a := Analysis{
		Name:     name,
		Tracks:   order,
		Averages: domain.Playlist{Tracks: order}.Analyze(),
		model:    model,
	}
	for i := 0; i+1 < len(order); i++ {
		bd := model.Breakdown(order[i], order[i+1])
		a.Transitions = append(a.Transitions, Transition{FromID: order[i].ID, ToID: order[i+1].ID, Breakdown: bd})
		a.Total += bd.Total
	}
	if len(a.Transitions) > 0 {
		a.Average = a.Total / float64(len(a.Transitions))
	}
	return a
}

// Compare records the total cost of another ordering under the same model.
func (a *Analysis) Compare(label string, order []domain.Track) {
	ids := make([]string, len(order))
	for i, t := range order {
		ids[i] = t.ID
	}
	a.Alternatives = append(a.Alternatives, Alternative{Label: label, Order: ids, Cost: a.model.TotalCost(order)})
}

// Savings returns how much cheaper the analyzed order is than the named alternative.
func (a Analysis) Savings(label string) (float64, bool) {
	for _, alt := range a.Alternatives {
		if alt.Label == label {
			return alt.Cost - a.Total, true
		}
	}
	return 0, false
}
