package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/justestif/go-song-popularity/internal/features"
	"github.com/justestif/go-song-popularity/internal/predict"
)

const pageTitle = "Song Popularity Prediction App"

// Predictor runs a popularity prediction for a track.
type Predictor interface {
	Predict(ctx context.Context, trackName, artistID string) (*predict.Prediction, error)
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	predictor Predictor
	templates *Templates
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(predictor Predictor, templates *Templates) *Handlers {
	return &Handlers{
		predictor: predictor,
		templates: templates,
	}
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := HomePageData{
		PageData: PageData{
			Title:       pageTitle,
			CurrentPath: r.URL.Path,
		},
	}
	h.render(w, r, http.StatusOK, data)
}

// Predict handles the prediction form (POST /predict). HTMX requests get
// only the result fragment.
func (h *Handlers) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := FormData{
		TrackName: r.PostForm.Get("track_name"),
		ArtistID:  r.PostForm.Get("artist_id"),
	}
	data := HomePageData{
		PageData: PageData{
			Title:       pageTitle,
			CurrentPath: r.URL.Path,
		},
		Form: form,
	}

	status := http.StatusOK
	p, err := h.predictor.Predict(r.Context(), form.TrackName, form.ArtistID)
	if err != nil {
		status = statusFor(err)
		logFailure(r, err, status)
		data.Flash = &FlashMessage{Type: flashType(err), Message: predict.Message(err)}
	} else {
		data.Result = toResultData(p)
	}

	if r.Header.Get("HX-Request") == "true" {
		// htmx does not swap error responses by default.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := h.templates.RenderPartial(w, "result", data); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("rendering result partial")
		}
		return
	}

	h.render(w, r, status, data)
}

// APIPredict handles JSON predictions (GET /api/predict?track=&artist=).
func (h *Handlers) APIPredict(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := h.predictor.Predict(r.Context(), q.Get("track"), q.Get("artist"))
	if err != nil {
		status := statusFor(err)
		logFailure(r, err, status)
		writeJSON(w, r, status, errorResponse{Error: predict.Message(err)})
		return
	}

	writeJSON(w, r, http.StatusOK, toPredictionResponse(p))
}

// Health reports liveness (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// render writes the home page. Template errors after the header is sent
// can only be logged.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, data HomePageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "home", data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rendering home page")
	}
}

// statusFor maps a prediction error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, predict.ErrMissingInput):
		return http.StatusBadRequest
	case errors.Is(err, predict.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, predict.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func flashType(err error) string {
	if errors.Is(err, predict.ErrMissingInput) || errors.Is(err, predict.ErrNotFound) {
		return "warning"
	}
	return "error"
}

func logFailure(r *http.Request, err error, status int) {
	log := zerolog.Ctx(r.Context())
	event := log.Debug()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Msg("prediction failed")
}

func toResultData(p *predict.Prediction) *ResultData {
	return &ResultData{
		ID:          p.ID.String(),
		TrackName:   p.Raw.TrackName,
		Artists:     p.Raw.Artists,
		Album:       p.Raw.Album,
		ReleaseDate: p.Raw.ReleaseDate,
		Fields:      p.Derived.Fields(),
		Cluster:     p.Cluster,
		Label:       p.Class.String(),
		Description: p.Class.Description(),
		Slug:        p.Class.Slug(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type featureValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type predictionResponse struct {
	ID          string         `json:"id"`
	TrackName   string         `json:"track_name"`
	ArtistID    string         `json:"artist_id"`
	TrackID     string         `json:"track_id"`
	Artists     string         `json:"artists"`
	Album       string         `json:"album,omitempty"`
	ReleaseDate string         `json:"release_date"`
	Features    []featureValue `json:"features"`
	Cluster     int            `json:"cluster"`
	Class       string         `json:"class"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	PredictedAt time.Time      `json:"predicted_at"`
}

func toPredictionResponse(p *predict.Prediction) predictionResponse {
	names := features.ColumnNames()
	values := p.Derived.Vector()
	feats := make([]featureValue, len(values))
	for i, v := range values {
		feats[i] = featureValue{Name: names[i], Value: v}
	}

	return predictionResponse{
		ID:          p.ID.String(),
		TrackName:   p.TrackName,
		ArtistID:    p.ArtistID,
		TrackID:     p.Raw.TrackID,
		Artists:     p.Raw.Artists,
		Album:       p.Raw.Album,
		ReleaseDate: p.Raw.ReleaseDate.Format("2006-01-02"),
		Features:    feats,
		Cluster:     p.Cluster,
		Class:       p.Class.Slug(),
		Label:       p.Class.String(),
		Description: p.Class.Description(),
		PredictedAt: p.At,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("encoding response")
	}
}
