package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/justestif/go-song-popularity/internal/features"
	"github.com/justestif/go-song-popularity/internal/predict"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the popularity of a single track",
	Example: `  song-popularity predict --track "Blinding Lights" --artist 1Xyo4u8uXC1ZmMpatF05PJ
  song-popularity predict --track "Blinding Lights" --artist 1Xyo4u8uXC1ZmMpatF05PJ --json`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringP("track", "t", "", "track name")
	predictCmd.Flags().StringP("artist", "a", "", "artist ID")
	predictCmd.Flags().Bool("json", false, "print the prediction as JSON")
}

func runPredict(cmd *cobra.Command, args []string) error {
	track, _ := cmd.Flags().GetString("track")
	artist, _ := cmd.Flags().GetString("artist")
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	p, err := a.service.Predict(cmd.Context(), track, artist)
	if err != nil {
		if errors.Is(err, predict.ErrMissingInput) ||
			errors.Is(err, predict.ErrNotFound) ||
			errors.Is(err, predict.ErrUnavailable) {
			return errors.New(predict.Message(err))
		}
		return err
	}

	if asJSON {
		return writePredictionJSON(cmd.OutOrStdout(), p)
	}
	return writePredictionTable(cmd.OutOrStdout(), p)
}

// predictionOutput is the JSON shape printed by --json.
type predictionOutput struct {
	ID          string             `json:"id"`
	TrackID     string             `json:"track_id"`
	TrackName   string             `json:"track_name"`
	Artists     string             `json:"artists"`
	ReleaseDate string             `json:"release_date"`
	Features    map[string]float64 `json:"features"`
	Cluster     int                `json:"cluster"`
	Label       string             `json:"label"`
	PredictedAt time.Time          `json:"predicted_at"`
}

func writePredictionJSON(w io.Writer, p *predict.Prediction) error {
	names := features.ColumnNames()
	values := p.Derived.Vector()
	feats := make(map[string]float64, len(values))
	for i, v := range values {
		feats[names[i]] = v
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(predictionOutput{
		ID:          p.ID.String(),
		TrackID:     p.Raw.TrackID,
		TrackName:   p.Raw.TrackName,
		Artists:     p.Raw.Artists,
		ReleaseDate: p.Raw.ReleaseDate.Format("2006-01-02"),
		Features:    feats,
		Cluster:     p.Cluster,
		Label:       p.Class.String(),
		PredictedAt: p.At,
	})
}

func writePredictionTable(w io.Writer, p *predict.Prediction) error {
	fmt.Fprintf(w, "%s - %s\n\n", p.Raw.TrackName, p.Raw.Artists)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, f := range p.Derived.Fields() {
		fmt.Fprintf(tw, "%s\t%s\t\n", f.Name, f.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPopularity Score is %d\n", p.Cluster)
	fmt.Fprintf(w, "Popularity Class: %s\n", p.Class)
	fmt.Fprintf(w, "%s\n", p.Class.Description())
	return nil
}
