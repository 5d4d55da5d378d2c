package cli

import (
	"jobmatch/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for job recommendations",
	Long: `Start an HTTP server that provides REST API endpoints for ranked job
recommendations.

Available endpoints:
- POST /recommendations: Ranked recommendations for one user
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("seed-file", "", "Store seed file (default from config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
	bindFlag("app.storeSeedFile", "seed-file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	seedFile, _ := cmd.Flags().GetString("seed-file")
	comps, err := buildComponents(cfg, logger, seedFile, nil)
	if err != nil {
		return err
	}
	defer comps.Close()

	host, _ := cmd.Flags().GetString("host")
	if host == "" {
		host = cfg.Server.Host
	}
	port, _ := cmd.Flags().GetString("port")
	if port == "" {
		port = cfg.Server.Port
	}

	serverCfg := server.ServerConfig{
		Host:           host,
		Port:           port,
		Version:        Version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, comps.Pipeline, comps.Store, comps.AIService, logger).Start()
}
