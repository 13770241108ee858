package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-song-popularity/internal/features"
)

const (
	searchWithTrack = `{
  "tracks": {
    "href": "", "limit": 1, "offset": 0, "total": 1, "next": "", "previous": "",
    "items": [{
      "id": "0VjIjW4GlUZAMYd2vXMi3b",
      "name": "Blinding Lights",
      "artists": [{"id": "1Xyo4u8uXC1ZmMpatF05PJ", "name": "The Weeknd"}],
      "album": {"name": "After Hours", "release_date": "%s", "release_date_precision": "day"}
    }]
  }
}`

	searchEmpty = `{
  "tracks": {"href": "", "limit": 1, "offset": 0, "total": 0, "next": "", "previous": "", "items": []}
}`

	audioFeatures = `{
  "audio_features": [{
    "id": "0VjIjW4GlUZAMYd2vXMi3b",
    "duration_ms": 200040,
    "danceability": 0.514,
    "speechiness": 0.0598,
    "acousticness": 0.00146,
    "instrumentalness": 0.0000954,
    "liveness": 0.0897,
    "valence": 0.334,
    "tempo": 171.005,
    "energy": 0.73,
    "loudness": -5.934
  }]
}`

	audioFeaturesNull = `{"audio_features": [null]}`
)

// fakeAPI serves canned search and audio-feature responses.
type fakeAPI struct {
	search        string
	audio         string
	searchStatus  int
	searchCalls   atomic.Int32
	featuresCalls atomic.Int32
	lastQuery     atomic.Value
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/search":
		f.searchCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())
		if f.searchStatus != 0 {
			w.WriteHeader(f.searchStatus)
			w.Write([]byte(`{"error": {"status": 503, "message": "service unavailable"}}`))
			return
		}
		w.Write([]byte(f.search))
	case "/audio-features":
		f.featuresCalls.Add(1)
		w.Write([]byte(f.audio))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	return New(spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/")))
}

func withDate(date string) string {
	return fmt.Sprintf(searchWithTrack, date)
}

func TestFetchFeatures(t *testing.T) {
	api := &fakeAPI{search: withDate("2019-11-29"), audio: audioFeatures}
	client := newTestClient(t, api)

	got, err := client.FetchFeatures(context.Background(), "Blinding Lights", "1Xyo4u8uXC1ZmMpatF05PJ")
	if err != nil {
		t.Fatalf("FetchFeatures() error = %v", err)
	}
	if got == nil {
		t.Fatal("FetchFeatures() returned nil record")
	}

	if got.TrackID != "0VjIjW4GlUZAMYd2vXMi3b" {
		t.Errorf("TrackID = %q", got.TrackID)
	}
	if got.TrackName != "Blinding Lights" || got.Artists != "The Weeknd" || got.Album != "After Hours" {
		t.Errorf("metadata = %q / %q / %q", got.TrackName, got.Artists, got.Album)
	}
	if got.DurationMs != 200040 {
		t.Errorf("DurationMs = %v, want 200040", got.DurationMs)
	}
	if float32(got.Energy) != 0.73 {
		t.Errorf("Energy = %v, want 0.73", got.Energy)
	}
	if float32(got.Loudness) != -5.934 {
		t.Errorf("Loudness = %v, want -5.934", got.Loudness)
	}
	if float32(got.Tempo) != 171.005 {
		t.Errorf("Tempo = %v, want 171.005", got.Tempo)
	}
	if want := time.Date(2019, 11, 29, 0, 0, 0, 0, time.UTC); !got.ReleaseDate.Equal(want) {
		t.Errorf("ReleaseDate = %v, want %v", got.ReleaseDate, want)
	}
}

func TestFetchFeaturesSearchQuery(t *testing.T) {
	api := &fakeAPI{search: searchEmpty}
	client := newTestClient(t, api)

	if _, err := client.FetchFeatures(context.Background(), "Blinding Lights", "The Weeknd"); err != nil {
		t.Fatalf("FetchFeatures() error = %v", err)
	}

	q, _ := api.lastQuery.Load().(url.Values)
	if got := first(q["q"]); got != "track:Blinding Lights artist:The Weeknd" {
		t.Errorf("q = %q", got)
	}
	if got := first(q["type"]); got != "track" {
		t.Errorf("type = %q, want track", got)
	}
	if got := first(q["limit"]); got != "1" {
		t.Errorf("limit = %q, want 1", got)
	}
}

func TestFetchFeaturesAbsent(t *testing.T) {
	tests := []struct {
		name              string
		search            string
		audio             string
		wantFeaturesCalls int32
	}{
		{"no search results", searchEmpty, audioFeatures, 0},
		{"no audio features", withDate("2020-01-01"), audioFeaturesNull, 1},
		{"empty audio features list", withDate("2020-01-01"), `{"audio_features": []}`, 1},
		{"missing release date", withDate(""), audioFeatures, 0},
		{"garbage release date", withDate("soon"), audioFeatures, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{search: tt.search, audio: tt.audio}
			client := newTestClient(t, api)

			got, err := client.FetchFeatures(context.Background(), "Unknown", "Nobody")
			if err != nil {
				t.Fatalf("FetchFeatures() error = %v, want nil", err)
			}
			if got != nil {
				t.Errorf("FetchFeatures() = %+v, want nil", got)
			}
			if n := api.featuresCalls.Load(); n != tt.wantFeaturesCalls {
				t.Errorf("audio-features calls = %d, want %d", n, tt.wantFeaturesCalls)
			}
		})
	}
}

func TestFetchFeaturesServiceError(t *testing.T) {
	api := &fakeAPI{searchStatus: http.StatusServiceUnavailable}
	client := newTestClient(t, api)

	got, err := client.FetchFeatures(context.Background(), "Blinding Lights", "The Weeknd")
	if err == nil {
		t.Fatal("FetchFeatures() error = nil, want error")
	}
	if got != nil {
		t.Errorf("FetchFeatures() = %+v, want nil", got)
	}
	if n := api.searchCalls.Load(); n != 1 {
		t.Errorf("search calls = %d, want 1 (no retry)", n)
	}
}

func TestApplyAudioFeatures(t *testing.T) {
	var r features.RawRecord
	applyAudioFeatures(&r, &spotify.AudioFeatures{
		Duration:         215000,
		Acousticness:     0.5,
		Danceability:     0.7,
		Energy:           0.8,
		Instrumentalness: 0.1,
		Liveness:         0.2,
		Loudness:         -5.0,
		Speechiness:      0.05,
		Tempo:            120.0,
		Valence:          0.6,
	})

	tests := []struct {
		name     string
		got      float64
		expected float32
	}{
		{"Acousticness", r.Acousticness, 0.5},
		{"Danceability", r.Danceability, 0.7},
		{"Energy", r.Energy, 0.8},
		{"Instrumentalness", r.Instrumentalness, 0.1},
		{"Liveness", r.Liveness, 0.2},
		{"Loudness", r.Loudness, -5.0},
		{"Speechiness", r.Speechiness, 0.05},
		{"Tempo", r.Tempo, 120.0},
		{"Valence", r.Valence, 0.6},
		{"DurationMs", r.DurationMs, 215000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if float32(tt.got) != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
