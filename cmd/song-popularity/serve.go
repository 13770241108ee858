package main

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/justestif/go-song-popularity/internal/web"
	webfs "github.com/justestif/go-song-popularity/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction web application",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	addr := a.cfg.Server.Addr
	if flag, _ := cmd.Flags().GetString("addr"); flag != "" {
		addr = flag
	}

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:              addr,
		Predictor:         a.service,
		TemplatesFS:       templates,
		StaticFS:          static,
		Logger:            a.logger,
		RateLimitRequests: a.cfg.Server.RateLimitRequests,
		RateLimitWindow:   a.cfg.Server.RateLimitWindow,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
