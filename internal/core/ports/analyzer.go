package ports

import "context"

// FeatureAnalyzer derives missing audio attributes from a local audio file.
type FeatureAnalyzer interface {
	AnalyzeEnergy(ctx context.Context, path string) (float64, error)
}
