// Package predict runs the popularity prediction pipeline for a single
// track: fetch its audio features, derive the model inputs and classify them.
package predict

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/justestif/go-song-popularity/internal/features"
	"github.com/justestif/go-song-popularity/internal/metrics"
	"github.com/justestif/go-song-popularity/internal/popularity"
)

// DefaultTimeout bounds a single catalog lookup.
const DefaultTimeout = 10 * time.Second

// Fetcher looks up audio features for a track. It returns (nil, nil) when
// nothing matches.
type Fetcher interface {
	FetchFeatures(ctx context.Context, trackName, artistID string) (*features.RawRecord, error)
}

// Classifier assigns derived features to a popularity class.
type Classifier interface {
	Classify(d features.DerivedRecord) (popularity.Result, error)
}

// Request is the user input for a prediction.
type Request struct {
	TrackName string `validate:"required"`
	ArtistID  string `validate:"required"`
}

// Prediction is the outcome of a successful prediction.
type Prediction struct {
	ID        uuid.UUID
	TrackName string
	ArtistID  string
	Raw       features.RawRecord
	Derived   features.DerivedRecord
	Cluster   int
	Class     popularity.Class
	At        time.Time
}

// Service runs predictions. It is safe for concurrent use.
type Service struct {
	fetcher    Fetcher
	projector  features.Projector
	classifier Classifier
	breaker    *gobreaker.CircuitBreaker[*features.RawRecord]
	validate   *validator.Validate
	timeout    time.Duration
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the catalog lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithBreaker sets how many consecutive catalog failures open the breaker
// and how long it stays open.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(s *Service) {
		s.breaker = newBreaker(failures, cooldown)
	}
}

// New creates a prediction service.
func New(fetcher Fetcher, projector features.Projector, classifier Classifier, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		projector:  projector,
		classifier: classifier,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		timeout:    DefaultTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.breaker == nil {
		s.breaker = newBreaker(5, 30*time.Second)
	}
	return s
}

// Predict fetches features for the track and classifies them.
//
// Errors wrap ErrMissingInput, ErrNotFound or ErrUnavailable; anything else
// indicates a model problem.
func (s *Service) Predict(ctx context.Context, trackName, artistID string) (*Prediction, error) {
	req := Request{
		TrackName: strings.TrimSpace(trackName),
		ArtistID:  strings.TrimSpace(artistID),
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, ErrMissingInput
	}

	log := zerolog.Ctx(ctx).With().
		Str("track", req.TrackName).
		Str("artist", req.ArtistID).
		Logger()

	raw, err := s.fetch(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("catalog lookup failed")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if raw == nil {
		log.Info().Msg("no features found")
		return nil, ErrNotFound
	}

	derived := features.Derive(*raw, s.projector)

	result, err := s.classifier.Classify(derived)
	if err != nil {
		return nil, fmt.Errorf("classifying: %w", err)
	}

	p := &Prediction{
		ID:        uuid.New(),
		TrackName: req.TrackName,
		ArtistID:  req.ArtistID,
		Raw:       *raw,
		Derived:   derived,
		Cluster:   result.Cluster,
		Class:     result.Class,
		At:        s.now(),
	}

	metrics.Predictions.WithLabelValues(p.Class.Slug()).Inc()
	log.Info().
		Str("prediction_id", p.ID.String()).
		Str("track_id", raw.TrackID).
		Int("cluster", p.Cluster).
		Str("class", p.Class.String()).
		Msg("predicted popularity")

	return p, nil
}

// fetch runs one bounded catalog lookup through the circuit breaker.
func (s *Service) fetch(ctx context.Context, req Request) (*features.RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.breaker.Execute(func() (*features.RawRecord, error) {
		return s.fetcher.FetchFeatures(ctx, req.TrackName, req.ArtistID)
	})
	metrics.CatalogLatency.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CatalogLookups.WithLabelValues(metrics.OutcomeUnavailable).Inc()
	case err != nil:
		metrics.CatalogLookups.WithLabelValues(metrics.OutcomeError).Inc()
	case raw == nil:
		metrics.CatalogLookups.WithLabelValues(metrics.OutcomeNotFound).Inc()
	default:
		metrics.CatalogLookups.WithLabelValues(metrics.OutcomeFound).Inc()
	}

	return raw, err
}

// newBreaker builds the catalog circuit breaker.
func newBreaker(failures uint32, cooldown time.Duration) *gobreaker.CircuitBreaker[*features.RawRecord] {
	if failures == 0 {
		failures = 1
	}

	return gobreaker.NewCircuitBreaker[*features.RawRecord](gobreaker.Settings{
		Name:        "spotify-catalog",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A caller giving up says nothing about the catalog.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.Set(float64(to))
		},
	})
}
