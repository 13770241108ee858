// Package model implements inference for the pre-fitted artifacts used by
// the popularity predictor: a standard scaler, a PCA projection and a set of
// k-means cluster centers. Parameters are loaded from disk; nothing here fits.
package model

import (
	"errors"
	"fmt"
)

// ErrDimension is returned when an input vector does not match a model's width.
var ErrDimension = errors.New("dimension mismatch")

// Transformer maps a feature vector onto another vector.
type Transformer interface {
	Transform(x []float64) ([]float64, error)
}

// Predictor assigns a feature vector to a discrete index.
type Predictor interface {
	Predict(x []float64) (int, error)
}

// Scaler standardizes features as (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes x. A zero scale leaves the centered value unscaled.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler: got %d features, want %d: %w", len(x), len(s.Mean), ErrDimension)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// Width returns the number of features the scaler expects.
func (s *Scaler) Width() int {
	return len(s.Mean)
}

// PCA projects centered features onto fitted principal components.
type PCA struct {
	Mean       []float64   `json:"mean"`
	Components [][]float64 `json:"components"` // Only the first is used
}

// Project returns the first principal component of an (energy, loudness)
// pair. It assumes a validated two-feature PCA.
func (p *PCA) Project(energy, loudness float64) float64 {
	component := p.Components[0]
	return (energy-p.Mean[0])*component[0] + (loudness-p.Mean[1])*component[1]
}
