package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookmark/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bookmark server",
	Long: `Start the bookmark HTTP server.

The server exposes the same lookups as the CLI. Editing the config file
while it runs rebuilds the source list without a restart.

The server provides:
  - /health        - Server health and enabled sources
  - /api/toc       - Table of contents lookup
  - /api/info      - Metadata lookup
  - /api/progress  - Checklist scoring
  - /swagger.json  - OpenAPI document

Examples:
  bookmark serve                    # Start on server.port (default 8080)
  bookmark serve --port 3000        # Start on custom port
  bookmark serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := setup(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if err := a.home.EnsureExists(); err != nil {
			return err
		}

		cfg := a.config.Get()
		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: a.config,
			Logger:        a.logger,
		})
		if err != nil {
			return err
		}

		a.config.OnError(func(err error) {
			a.logger.Error("config reload failed", "error", err)
		})
		a.config.WatchConfig()

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
