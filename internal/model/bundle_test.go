package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/justestif/go-song-popularity/internal/features"
)

// vec renders an n-wide JSON array of v.
func vec(n int, v float64) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// artifact renders a bundle whose scaler is width wide.
func artifact(width int, pca, centers string) string {
	return fmt.Sprintf(`{"version": "test", "scaler": {"mean": %s, "scale": %s}, "pca": %s, "kmeans": {"centers": %s}}`,
		vec(width, 0), vec(width, 1), pca, centers)
}

const validPCA = `{"mean": [0, 0], "components": [[1, 0]]}`

var validArtifact = artifact(features.VectorSize, validPCA,
	"["+vec(features.VectorSize, 0)+", "+vec(features.VectorSize, 1)+"]")

func TestParse(t *testing.T) {
	b, err := Parse([]byte(validArtifact))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if b.Version != "test" {
		t.Errorf("Version = %q, want %q", b.Version, "test")
	}

	x := make([]float64, features.VectorSize)
	for i := range x {
		x[i] = 0.9
	}
	idx, err := b.KMeans.Predict(x)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if idx != 1 {
		t.Errorf("Predict() = %d, want 1", idx)
	}
}

func TestParseInvalid(t *testing.T) {
	w := features.VectorSize
	centers := "[" + vec(w, 0) + "]"

	tests := []struct {
		name     string
		artifact string
		wantErr  string
	}{
		{
			name:     "missing kmeans",
			artifact: fmt.Sprintf(`{"scaler": {"mean": %s, "scale": %s}, "pca": %s}`, vec(w, 0), vec(w, 1), validPCA),
			wantErr:  "all required",
		},
		{
			name:     "scale length mismatch",
			artifact: fmt.Sprintf(`{"scaler": {"mean": %s, "scale": %s}, "pca": %s, "kmeans": {"centers": %s}}`, vec(w, 0), vec(w-1, 1), validPCA, centers),
			wantErr:  fmt.Sprintf("%d means but %d scales", w, w-1),
		},
		{
			name:     "scaler narrower than derived vector",
			artifact: artifact(w-1, validPCA, "["+vec(w-1, 0)+"]"),
			wantErr:  fmt.Sprintf("scaler has %d features, want %d", w-1, w),
		},
		{
			name:     "empty scaler",
			artifact: artifact(0, validPCA, "[[]]"),
			wantErr:  "scaler has 0 features",
		},
		{
			name:     "pca wrong input width",
			artifact: artifact(w, `{"mean": [0, 0, 0], "components": [[1, 0, 0]]}`, centers),
			wantErr:  "want 2",
		},
		{
			name:     "pca without components",
			artifact: artifact(w, `{"mean": [0, 0], "components": []}`, centers),
			wantErr:  "pca has 0 components, want 1",
		},
		{
			name:     "pca with two components",
			artifact: artifact(w, `{"mean": [0, 0], "components": [[1, 0], [0, 1]]}`, centers),
			wantErr:  "pca has 2 components, want 1",
		},
		{
			name:     "pca component wrong width",
			artifact: artifact(w, `{"mean": [0, 0], "components": [[1]]}`, centers),
			wantErr:  "1 weights, want 2",
		},
		{
			name:     "no centers",
			artifact: artifact(w, validPCA, "[]"),
			wantErr:  "no centers",
		},
		{
			name:     "center width mismatch",
			artifact: artifact(w, validPCA, "["+vec(w, 0)+", "+vec(w-1, 0)+"]"),
			wantErr:  "center 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.artifact))
			if !errors.Is(err, ErrInvalidArtifact) {
				t.Fatalf("Parse() error = %v, want ErrInvalidArtifact", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"scaler":`)); err == nil {
		t.Error("Parse() with malformed JSON: want error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(validArtifact), 0600); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b.KMeans.K() != 2 {
		t.Errorf("K() = %d, want 2", b.KMeans.K())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}
