// README: JSON model artifact (linear or tree ensemble) and its evaluators.
package prediction

import (
	"encoding/json"
	"fmt"
	"io"
)

type Kind string

const (
	KindLinear       Kind = "linear"
	KindTreeEnsemble Kind = "tree_ensemble"
)

// Artifact is a trained regressor decoded from disk. It is never written after
// ParseArtifact returns, so one instance can serve all requests concurrently.
type Artifact struct {
	Kind      Kind `json:"kind"`
	NFeatures int  `json:"n_features"`

	// linear
	Coef      []float64 `json:"coef,omitempty"`
	Intercept float64   `json:"intercept,omitempty"`

	// tree_ensemble
	BaseScore    float64 `json:"base_score,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty"`
	Trees        []Tree  `json:"trees,omitempty"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is either a leaf carrying Value, or a split sending rows with
// row[Feature] <= Threshold to Left and everything else to Right.
type Node struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
}

// ParseArtifact decodes and validates an artifact. learning_rate defaults to 1.
func ParseArtifact(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if a.Kind == KindTreeEnsemble && a.LearningRate == 0 {
		a.LearningRate = 1
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Artifact) validate() error {
	if a.NFeatures <= 0 {
		return fmt.Errorf("%w: n_features must be positive", ErrInvalidArtifact)
	}
	switch a.Kind {
	case KindLinear:
		if len(a.Coef) != a.NFeatures {
			return fmt.Errorf("%w: %d coefficients for %d features", ErrInvalidArtifact, len(a.Coef), a.NFeatures)
		}
	case KindTreeEnsemble:
		if len(a.Trees) == 0 {
			return fmt.Errorf("%w: tree ensemble has no trees", ErrInvalidArtifact)
		}
		for i, t := range a.Trees {
			if err := t.validate(a.NFeatures); err != nil {
				return fmt.Errorf("%w: tree %d: %v", ErrInvalidArtifact, i, err)
			}
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidArtifact, a.Kind)
	}
	return nil
}

// validate requires children to sit after their parent, which also rules out cycles.
func (t Tree) validate(nFeatures int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

// Predict implements Predictor.
func (a *Artifact) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != a.NFeatures {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(row), a.NFeatures)
		}
		switch a.Kind {
		case KindLinear:
			out[i] = a.linear(row)
		case KindTreeEnsemble:
			out[i] = a.ensemble(row)
		}
	}
	return out, nil
}

func (a *Artifact) linear(row []float64) float64 {
	sum := a.Intercept
	for j, c := range a.Coef {
		sum += c * row[j]
	}
	return sum
}

func (a *Artifact) ensemble(row []float64) float64 {
	sum := a.BaseScore
	for _, t := range a.Trees {
		sum += a.LearningRate * t.eval(row)
	}
	return sum
}

func (t Tree) eval(row []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
