// Package features holds the audio-feature records used for popularity
// prediction and the derivation step that reshapes them for the scaler.
package features

import (
	"time"
)

// ScalarCount is the number of float features in a DerivedRecord.
const ScalarCount = 9

// VectorSize is the width of the vector handed to the scaler: the scalar
// features followed by the release date ordinal.
const VectorSize = ScalarCount + 1

// RawRecord is the audio-feature data returned by the catalog for one track.
type RawRecord struct {
	TrackID   string
	TrackName string
	Artists   string // Comma-separated artist names
	Album     string

	DurationMs       float64
	Danceability     float64
	Speechiness      float64
	Acousticness     float64
	Instrumentalness float64
	Liveness         float64
	Valence          float64
	Tempo            float64
	Energy           float64
	Loudness         float64

	ReleaseDate time.Time
}

// DerivedRecord is a RawRecord with energy and loudness collapsed into a
// single projected component and the release date turned into an ordinal.
type DerivedRecord struct {
	DurationMs         float64
	Danceability       float64
	Speechiness        float64
	Acousticness       float64
	Instrumentalness   float64
	Liveness           float64
	Valence            float64
	Tempo              float64
	EnergyLoudness     float64
	ReleaseDateOrdinal int64
}

// Projector maps an (energy, loudness) pair onto a single component.
type Projector interface {
	Project(energy, loudness float64) float64
}

// Derive builds the DerivedRecord for raw using a previously fitted projection.
func Derive(raw RawRecord, p Projector) DerivedRecord {
	return DerivedRecord{
		DurationMs:         raw.DurationMs,
		Danceability:       raw.Danceability,
		Speechiness:        raw.Speechiness,
		Acousticness:       raw.Acousticness,
		Instrumentalness:   raw.Instrumentalness,
		Liveness:           raw.Liveness,
		Valence:            raw.Valence,
		Tempo:              raw.Tempo,
		EnergyLoudness:     p.Project(raw.Energy, raw.Loudness),
		ReleaseDateOrdinal: Ordinal(raw.ReleaseDate),
	}
}

// Scalars returns the float features in scaler column order.
func (d DerivedRecord) Scalars() []float64 {
	return []float64{
		d.DurationMs,
		d.Danceability,
		d.Speechiness,
		d.Acousticness,
		d.Instrumentalness,
		d.Liveness,
		d.Valence,
		d.Tempo,
		d.EnergyLoudness,
	}
}

// Vector returns the full scaler input: Scalars followed by the release date ordinal.
func (d DerivedRecord) Vector() []float64 {
	return append(d.Scalars(), float64(d.ReleaseDateOrdinal))
}
