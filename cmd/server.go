package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/cerebro/internal/assistant"
	"github.com/ziadkadry99/cerebro/internal/catalog"
	"github.com/ziadkadry99/cerebro/internal/chat"
	"github.com/ziadkadry99/cerebro/internal/server"
	"github.com/ziadkadry99/cerebro/internal/usage"
)

// requestSlack is added on top of the generation timeout so a slow model
// still gets its 504 from the gateway instead of the router.
const requestSlack = 10 * time.Second

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the assistant HTTP server",
	Long: `Starts the HTTP server exposing the assistant endpoint, the catalog and
usage APIs, and the browser chat UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		// The recorder outlives ctx so records in flight at shutdown still
		// reach the database; Close drains it.
		a.recorder.Start(context.Background())

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout + requestSlack,
		}, a.db, logger)
		registerAllRoutes(srv, a)

		counts, err := a.catalog.Counts(ctx)
		if err != nil {
			return fmt.Errorf("reading catalog: %w", err)
		}
		fields := []zap.Field{
			zap.String("version", Version),
			zap.Int("port", cfg.Port),
			zap.String("database", a.db.Path()),
		}
		for _, k := range catalog.Kinds {
			fields = append(fields, zap.Int(string(k), counts[k]))
		}
		if a.index != nil {
			fields = append(fields, zap.Int("indexed_articles", a.index.Count()))
		}
		logger.Info("cerebro server starting", fields...)

		if err := srv.Run(ctx); err != nil {
			return err
		}
		logger.Info("cerebro server stopped")
		return nil
	},
}

// registerAllRoutes mounts every feature package on the server router.
func registerAllRoutes(srv *server.Server, a *app) {
	r := srv.Router()

	assistant.RegisterRoutes(r, a.pipeline, logger)
	catalog.RegisterRoutes(r, a.catalog)
	usage.RegisterRoutes(r, a.usage)

	chat.New(a.pipeline, a.catalog, a.usage, logger).RegisterRoutes(r)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
