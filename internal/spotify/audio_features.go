package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-song-popularity/internal/features"
)

// FetchFeatures searches the catalog for a track by name and artist and
// returns its audio features. Only the first search result is considered.
// Returns (nil, nil) when there is no match, the match has no audio
// features, or its release date cannot be read.
func (c *Client) FetchFeatures(ctx context.Context, trackName, artistID string) (*features.RawRecord, error) {
	log := zerolog.Ctx(ctx)
	query := searchQuery(trackName, artistID)

	results, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}

	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		log.Debug().Str("query", query).Msg("no tracks matched")
		return nil, nil
	}
	track := results.Tracks.Tracks[0]

	// Checked before fetching audio features: a track without a usable date
	// is absent either way, so skip the second request.
	releaseDate, err := parseReleaseDate(track.Album.ReleaseDate)
	if err != nil {
		log.Warn().Err(err).Str("track_id", track.ID.String()).Msg("unreadable release date")
		return nil, nil
	}

	audio, err := c.api.GetAudioFeatures(ctx, track.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching audio features: %w", err)
	}
	if len(audio) == 0 || audio[0] == nil {
		log.Debug().Str("track_id", track.ID.String()).Msg("track has no audio features")
		return nil, nil
	}

	raw := convertTrack(track)
	raw.ReleaseDate = releaseDate
	applyAudioFeatures(&raw, audio[0])

	return &raw, nil
}

// searchQuery builds a field-filtered search for a track by a given artist.
func searchQuery(trackName, artistID string) string {
	return fmt.Sprintf("track:%s artist:%s", trackName, artistID)
}

// convertTrack copies display metadata from a Spotify track.
func convertTrack(track spotify.FullTrack) features.RawRecord {
	artists := make([]string, len(track.Artists))
	for i, a := range track.Artists {
		artists[i] = a.Name
	}

	return features.RawRecord{
		TrackID:   track.ID.String(),
		TrackName: track.Name,
		Artists:   strings.Join(artists, ", "),
		Album:     track.Album.Name,
	}
}

// applyAudioFeatures copies audio feature values to a record.
func applyAudioFeatures(r *features.RawRecord, f *spotify.AudioFeatures) {
	r.DurationMs = float64(f.Duration)
	r.Danceability = float64(f.Danceability)
	r.Speechiness = float64(f.Speechiness)
	r.Acousticness = float64(f.Acousticness)
	r.Instrumentalness = float64(f.Instrumentalness)
	r.Liveness = float64(f.Liveness)
	r.Valence = float64(f.Valence)
	r.Tempo = float64(f.Tempo)
	r.Energy = float64(f.Energy)
	r.Loudness = float64(f.Loudness)
}
