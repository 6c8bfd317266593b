package cli

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/cypherlabdev/order-service/internal/config"
	"github.com/cypherlabdev/order-service/internal/observability"
	"github.com/cypherlabdev/order-service/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	var (
		databaseURL string
		list        bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL schema migrations",
		Long:  "Apply the embedded orders schema migrations. Uses DATABASE_URL (or DB_*) unless --database-url is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				migrations, err := repository.LoadMigrations()
				if err != nil {
					return err
				}
				for _, m := range migrations {
					fmt.Fprintf(cmd.OutOrStdout(), "%04d_%s\n", m.Version, m.Name)
				}
				return nil
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if databaseURL == "" {
				databaseURL = cfg.Database.URL
			}

			logger := observability.NewLogger(observability.LoggerConfig{
				Service:     cfg.Service.Name,
				Environment: cfg.Service.Environment,
				Version:     version,
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				Output:      cmd.ErrOrStderr(),
			})

			ctx := cmd.Context()
			dbPool, err := pgxpool.New(ctx, databaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer dbPool.Close()

			applied, err := repository.Migrate(ctx, dbPool, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL")
	cmd.Flags().BoolVar(&list, "list", false, "List embedded migrations without applying them")
	return cmd
}
