package features

import (
	"testing"
	"time"
)

// fixedProjector returns energy + loudness so tests can predict the component.
type fixedProjector struct{}

func (fixedProjector) Project(energy, loudness float64) float64 {
	return energy + loudness
}

func testRecord() RawRecord {
	return RawRecord{
		TrackID:          "track123",
		TrackName:        "Test Song",
		Artists:          "Artist One",
		DurationMs:       215000,
		Danceability:     0.7,
		Speechiness:      0.05,
		Acousticness:     0.5,
		Instrumentalness: 0.1,
		Liveness:         0.2,
		Valence:          0.6,
		Tempo:            120,
		Energy:           0.8,
		Loudness:         -5.0,
		ReleaseDate:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestDerive(t *testing.T) {
	got := Derive(testRecord(), fixedProjector{})

	if got.EnergyLoudness != 0.8+-5.0 {
		t.Errorf("EnergyLoudness = %v, want %v", got.EnergyLoudness, 0.8+-5.0)
	}
	if got.ReleaseDateOrdinal != 737425 {
		t.Errorf("ReleaseDateOrdinal = %d, want 737425", got.ReleaseDateOrdinal)
	}
	if got.DurationMs != 215000 {
		t.Errorf("DurationMs = %v, want 215000", got.DurationMs)
	}
}

func TestDeriveShape(t *testing.T) {
	records := []RawRecord{
		testRecord(),
		{},
		{DurationMs: 1, Energy: 1, Loudness: -60, ReleaseDate: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, raw := range records {
		d := Derive(raw, fixedProjector{})

		if n := len(d.Scalars()); n != ScalarCount {
			t.Errorf("len(Scalars()) = %d, want %d", n, ScalarCount)
		}
		if n := len(d.Vector()); n != VectorSize {
			t.Errorf("len(Vector()) = %d, want %d", n, VectorSize)
		}
		if n := len(d.Fields()); n != VectorSize {
			t.Errorf("len(Fields()) = %d, want %d", n, VectorSize)
		}
	}
}

func TestVectorOrder(t *testing.T) {
	d := Derive(testRecord(), fixedProjector{})
	want := []float64{215000, 0.7, 0.05, 0.5, 0.1, 0.2, 0.6, 120, 0.8 + -5.0, 737425}

	got := d.Vector()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Vector()[%d] (%s) = %v, want %v", i, ColumnNames()[i], got[i], want[i])
		}
	}
}

func TestVectorDoesNotAliasScalars(t *testing.T) {
	d := Derive(testRecord(), fixedProjector{})
	v := d.Vector()
	v[0] = -1

	if d.Scalars()[0] != 215000 {
		t.Error("mutating Vector() changed the record")
	}
}

func TestFields(t *testing.T) {
	d := Derive(testRecord(), fixedProjector{})
	fields := d.Fields()

	if fields[0].Name != "Duration (ms)" || fields[0].Value != "215000" {
		t.Errorf("fields[0] = %+v", fields[0])
	}
	last := fields[len(fields)-1]
	if last.Name != "Release Date ordinal" || last.Value != "737425" {
		t.Errorf("last field = %+v", last)
	}
	if fields[8].Value != "-4.2000" {
		t.Errorf("energy_loudness_pca = %q, want %q", fields[8].Value, "-4.2000")
	}
}
