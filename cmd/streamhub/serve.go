package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/streamhub"
	"github.com/kbukum/streamhub/bootstrap"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	var staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the stream hub.

Clients open streams with GET /streams/{key} (or GET /sse for the demo feed),
producers write with POST /streams/{key}/events and end streams with
DELETE /streams/{key}. SIGINT or SIGTERM ends open streams and drains the
server.

Examples:
  # Start with config file settings
  streamhub serve

  # Override the port and serve a directory for unmatched routes
  streamhub serve --port 8080 --static ./public`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("static") {
				cfg.StaticDir = staticDir
			}

			app, err := bootstrap.NewApp(cfg)
			if err != nil {
				return err
			}
			if _, err := streamhub.Wire(app); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory served for unmatched GET requests")
	return cmd
}
