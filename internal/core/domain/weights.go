package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights indicates a weight vector with a negative or NaN component.
var ErrInvalidWeights = errors.New("domain: invalid weights")

// Weights scales each per-dimension distance of the transition cost.
// No normalization is enforced; DefaultWeights sums to 1.0.
type Weights struct {
	Tempo        float64 `json:"tempo" mapstructure:"tempo"`
	Energy       float64 `json:"energy" mapstructure:"energy"`
	Danceability float64 `json:"danceability" mapstructure:"danceability"`
	Key          float64 `json:"key" mapstructure:"key"`
	Mode         float64 `json:"mode" mapstructure:"mode"`
}

// DefaultWeights returns the canonical weight vector.
func DefaultWeights() Weights {
	return Weights{
		Tempo:        0.3,
		Energy:       0.25,
		Danceability: 0.2,
		Key:          0.15,
		Mode:         0.1,
	}
}

// Sum returns the total of all components.
func (w Weights) Sum() float64 {
	return w.Tempo + w.Energy + w.Danceability + w.Key + w.Mode
}

// Validate rejects negative, infinite and NaN components. All-zero weights are valid
// and make every transition free.
func (w Weights) Validate() error {
	named := []struct {
		name string
		v    float64
	}{
		{"tempo", w.Tempo},
		{"energy", w.Energy},
		{"danceability", w.Danceability},
		{"key", w.Key},
		{"mode", w.Mode},
	}
	for _, c := range named {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 {
			return fmt.Errorf("%w: %s weight must be a non-negative number, got %v", ErrInvalidWeights, c.name, c.v)
		}
	}
	return nil
}
