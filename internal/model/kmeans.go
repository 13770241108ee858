package model

import (
	"fmt"

	"github.com/muesli/clusters"
)

// KMeans assigns vectors to the nearest of a fixed set of cluster centers.
type KMeans struct {
	Centers [][]float64 `json:"centers"`

	clusters clusters.Clusters
}

// NewKMeans creates a KMeans from the given centers.
func NewKMeans(centers [][]float64) *KMeans {
	k := &KMeans{Centers: centers}
	k.build()
	return k
}

// vectorObservation wraps a feature vector to implement clusters.Observation.
type vectorObservation struct {
	coords clusters.Coordinates
}

func (o vectorObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o vectorObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// build converts the raw centers into clusters for lookup.
func (k *KMeans) build() {
	k.clusters = toClusters(k.Centers)
}

func toClusters(centers [][]float64) clusters.Clusters {
	cs := make(clusters.Clusters, len(centers))
	for i, center := range centers {
		cs[i] = clusters.Cluster{Center: clusters.Coordinates(center)}
	}
	return cs
}

// Predict returns the index of the center closest to x by squared Euclidean
// distance. Ties resolve to the lowest index.
func (k *KMeans) Predict(x []float64) (int, error) {
	cs := k.clusters
	if len(cs) != len(k.Centers) {
		cs = toClusters(k.Centers)
	}
	if len(cs) == 0 {
		return 0, fmt.Errorf("kmeans: no centers loaded")
	}
	if width := len(cs[0].Center); len(x) != width {
		return 0, fmt.Errorf("kmeans: got %d features, want %d: %w", len(x), width, ErrDimension)
	}

	return cs.Nearest(vectorObservation{coords: clusters.Coordinates(x)}), nil
}

// K returns the number of clusters.
func (k *KMeans) K() int {
	return len(k.Centers)
}
