package predict

import "errors"

var (
	// ErrMissingInput is returned when the track name or artist ID is empty.
	ErrMissingInput = errors.New("missing track name or artist ID")

	// ErrNotFound is returned when the catalog has no usable match.
	ErrNotFound = errors.New("song features not found")

	// ErrUnavailable is returned when the catalog cannot be reached.
	ErrUnavailable = errors.New("catalog service unavailable")
)

// User-facing messages for each outcome.
const (
	MsgMissingInput = "Please enter both the track name and artist ID."
	MsgNotFound     = "Could not find song features. Please check the track name and artist ID."
	MsgUnavailable  = "The music catalog service is unavailable. Please try again later."
	MsgInternal     = "Something went wrong while predicting popularity."
)

// Message returns the message shown to a user for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return MsgMissingInput
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrUnavailable):
		return MsgUnavailable
	default:
		return MsgInternal
	}
}
