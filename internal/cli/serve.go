package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cypherlabdev/order-service/internal/app"
	"github.com/cypherlabdev/order-service/internal/config"
	"github.com/cypherlabdev/order-service/internal/observability"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the orders API, gRPC health and ops servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger := observability.NewLogger(observability.LoggerConfig{
				Service:     cfg.Service.Name,
				Environment: cfg.Service.Environment,
				Version:     version,
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
			})
			logger.Info().
				Str("store", cfg.Store.Driver).
				Msg("order-service starting")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.New(cfg, logger, observability.NewMetrics(), prometheus.DefaultGatherer).Run(ctx)
		},
	}
}
