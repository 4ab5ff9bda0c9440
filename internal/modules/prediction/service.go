// README: Prediction service computes fares from the closed-form formula or the loaded model.
package prediction

import (
	"context"
	"fmt"
	"math"
)

// Predictor is anything that maps rows of numeric features to one scalar per row.
// Implementations must be safe for concurrent use; the service never serialises calls.
type Predictor interface {
	Predict(rows [][]float64) ([]float64, error)
}

type Service struct {
	model Predictor
}

// NewService wraps a model that was loaded once at startup. model may be nil when
// only the formula is served.
func NewService(model Predictor) *Service {
	return &Service{model: model}
}

// EstimateFormula is the fixed affine fare: distance*2 + duration*0.5.
func (s *Service) EstimateFormula(t Trip) float64 {
	return t.Distance*distanceRate + t.Duration*durationRate
}

// Predict runs the model on a single feature row and returns its only output.
func (s *Service) Predict(ctx context.Context, f Features) (float64, error) {
	if s.model == nil {
		return 0, ErrNoModel
	}
	out, err := s.model.Predict([][]float64{f.Vector()})
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if len(out) == 0 {
		return 0, ErrEmptyPrediction
	}
	if math.IsInf(out[0], 0) || math.IsNaN(out[0]) {
		return 0, fmt.Errorf("predict: %w: %v", ErrNonFinite, out[0])
	}
	return out[0], nil
}
