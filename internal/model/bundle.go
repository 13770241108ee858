package model

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/justestif/go-song-popularity/internal/features"
)

// ErrInvalidArtifact is returned when a model artifact fails validation.
var ErrInvalidArtifact = errors.New("invalid model artifact")

//go:embed default.json
var defaultArtifact []byte

// Bundle groups the artifacts needed to classify a track.
type Bundle struct {
	Version string  `json:"version"`
	Scaler  *Scaler `json:"scaler"`
	PCA     *PCA    `json:"pca"`
	KMeans  *KMeans `json:"kmeans"`
}

// Default returns the artifact bundle compiled into the binary.
func Default() (*Bundle, error) {
	b, err := Parse(defaultArtifact)
	if err != nil {
		return nil, fmt.Errorf("loading default model: %w", err)
	}
	return b, nil
}

// Load reads and validates an artifact bundle from a JSON file.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}

	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates an artifact bundle.
func Parse(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing model artifact: %w", err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}

	b.KMeans.build()
	return &b, nil
}

// Validate checks that the artifacts fit together and match the derived
// feature vector: the scaler and every center are features.VectorSize wide,
// and the PCA maps (energy, loudness) onto exactly one component.
func (b *Bundle) Validate() error {
	if b.Scaler == nil || b.PCA == nil || b.KMeans == nil {
		return fmt.Errorf("%w: scaler, pca and kmeans are all required", ErrInvalidArtifact)
	}

	width := b.Scaler.Width()
	if len(b.Scaler.Scale) != width {
		return fmt.Errorf("%w: scaler has %d means but %d scales", ErrInvalidArtifact, width, len(b.Scaler.Scale))
	}
	if width != features.VectorSize {
		return fmt.Errorf("%w: scaler has %d features, want %d", ErrInvalidArtifact, width, features.VectorSize)
	}

	if len(b.PCA.Mean) != 2 {
		return fmt.Errorf("%w: pca expects %d features, want 2", ErrInvalidArtifact, len(b.PCA.Mean))
	}
	if len(b.PCA.Components) != 1 {
		return fmt.Errorf("%w: pca has %d components, want 1", ErrInvalidArtifact, len(b.PCA.Components))
	}
	if len(b.PCA.Components[0]) != 2 {
		return fmt.Errorf("%w: pca component has %d weights, want 2", ErrInvalidArtifact, len(b.PCA.Components[0]))
	}

	if len(b.KMeans.Centers) == 0 {
		return fmt.Errorf("%w: kmeans has no centers", ErrInvalidArtifact)
	}
	for i, c := range b.KMeans.Centers {
		if len(c) != width {
			return fmt.Errorf("%w: center %d has %d features, want %d", ErrInvalidArtifact, i, len(c), width)
		}
	}

	return nil
}
