// Package popularity maps derived audio features onto a popularity class.
package popularity

// Class is a human-readable popularity bucket.
type Class int

const (
	NotPopular Class = iota
	ModeratelyPopular
	HighlyPopular
)

// ForCluster maps a cluster index onto a class. Index 0 is Not Popular,
// 1 is Moderately Popular and every other index is Highly Popular.
func ForCluster(idx int) Class {
	switch idx {
	case 0:
		return NotPopular
	case 1:
		return ModeratelyPopular
	default:
		return HighlyPopular
	}
}

// String returns the short label.
func (c Class) String() string {
	switch c {
	case NotPopular:
		return "Not Popular"
	case ModeratelyPopular:
		return "Moderately Popular"
	default:
		return "Highly Popular"
	}
}

// Description returns a longer explanation of what the class means.
func (c Class) Description() string {
	switch c {
	case NotPopular:
		return "If you are a diehard fan you might remember the song but it probably would not make it to the charts."
	case ModeratelyPopular:
		return "This song maybe will make it to the lower half of the charts for a while before fading away, but you might have loved it!"
	default:
		return "This song will be on the charts and probably in tons of custom playlists! You might see it blow up!"
	}
}

// Slug returns a stable machine-readable identifier.
func (c Class) Slug() string {
	switch c {
	case NotPopular:
		return "not_popular"
	case ModeratelyPopular:
		return "moderately_popular"
	default:
		return "highly_popular"
	}
}
