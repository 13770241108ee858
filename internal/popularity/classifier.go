package popularity

import (
	"fmt"

	"github.com/justestif/go-song-popularity/internal/features"
	"github.com/justestif/go-song-popularity/internal/model"
)

// Result is the outcome of classifying one track.
type Result struct {
	Scaled  []float64 // Standardized feature vector
	Cluster int
	Class   Class
}

// Classifier scales derived features and assigns them to a cluster.
type Classifier struct {
	scaler    model.Transformer
	clusterer model.Predictor
}

// NewClassifier creates a Classifier from a scaler and a cluster predictor.
func NewClassifier(scaler model.Transformer, clusterer model.Predictor) *Classifier {
	return &Classifier{
		scaler:    scaler,
		clusterer: clusterer,
	}
}

// FromBundle creates a Classifier from a validated artifact bundle.
func FromBundle(b *model.Bundle) *Classifier {
	return NewClassifier(b.Scaler, b.KMeans)
}

// Classify standardizes d, finds its nearest cluster and maps it to a class.
// Errors only occur when the artifacts do not match the feature width.
func (c *Classifier) Classify(d features.DerivedRecord) (Result, error) {
	scaled, err := c.scaler.Transform(d.Vector())
	if err != nil {
		return Result{}, fmt.Errorf("scaling features: %w", err)
	}

	cluster, err := c.clusterer.Predict(scaled)
	if err != nil {
		return Result{}, fmt.Errorf("assigning cluster: %w", err)
	}

	return Result{
		Scaled:  scaled,
		Cluster: cluster,
		Class:   ForCluster(cluster),
	}, nil
}
