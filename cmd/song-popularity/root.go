package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/justestif/go-song-popularity/internal/auth"
	"github.com/justestif/go-song-popularity/internal/config"
	"github.com/justestif/go-song-popularity/internal/logging"
	"github.com/justestif/go-song-popularity/internal/model"
	"github.com/justestif/go-song-popularity/internal/popularity"
	"github.com/justestif/go-song-popularity/internal/predict"
	"github.com/justestif/go-song-popularity/internal/spotify"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "song-popularity",
	Short: "Predict the popularity of a Spotify track",
	Long: `song-popularity looks up a track's audio features on Spotify and
assigns it to a popularity class using a pre-fitted clustering model.

Spotify credentials are read from CLIENT_ID and CLIENT_SECRET (or
SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET), a config.yaml file, or the
file named by --config.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
}

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	service *predict.Service
}

// setup loads configuration, authenticates with Spotify and builds the
// prediction service. ctx must outlive the service.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	bundle, err := loadModel(cfg.Model.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("version", bundle.Version).
		Int("clusters", bundle.KMeans.K()).
		Msg("model loaded")

	authenticator, err := auth.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	if err != nil {
		return nil, err
	}
	verifyCtx, cancel := context.WithTimeout(ctx, cfg.Spotify.Timeout)
	defer cancel()
	if err := authenticator.Verify(verifyCtx); err != nil {
		return nil, fmt.Errorf("authenticating with Spotify: %w", err)
	}

	fetcher := spotify.New(authenticator.Client(ctx))
	service := predict.New(fetcher, bundle.PCA, popularity.FromBundle(bundle),
		predict.WithTimeout(cfg.Spotify.Timeout),
		predict.WithBreaker(cfg.Spotify.BreakerFailures, cfg.Spotify.BreakerCooldown),
	)

	return &app{cfg: cfg, logger: logger, service: service}, nil
}

func loadModel(path string) (*model.Bundle, error) {
	if path == "" {
		return model.Default()
	}
	return model.Load(path)
}
