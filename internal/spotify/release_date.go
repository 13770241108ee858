package spotify

import (
	"errors"
	"time"
)

// errNoReleaseDate is returned for an album without a release date.
var errNoReleaseDate = errors.New("no release date")

// releaseDateLayouts covers the day, month and year precisions Spotify uses.
var releaseDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// parseReleaseDate parses an album release date. Missing month or day
// components default to the first of the period.
func parseReleaseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errNoReleaseDate
	}

	var lastErr error
	for _, layout := range releaseDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
