package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aouyang1/climbcraft/api"
	"github.com/aouyang1/climbcraft/catalog"
	"github.com/aouyang1/climbcraft/config"
	"github.com/aouyang1/climbcraft/store"
	"github.com/spf13/cobra"
)

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the wall editor web server",
		Long: `Starts the wall editor API and web interface.

Configuration is read from CLIMBCRAFT_* environment variables or a .env file.
Hold images are served from $CLIMBCRAFT_ROOT_PATH/holds and, when
CLIMBCRAFT_S3_BUCKET is set, mirrored from that bucket.`,
		Example: `  # Start server on the configured port
  climbcraft serve

  # Start server on custom port
  climbcraft serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if port != "" {
				cfg.Port = port
			}

			db, err := store.NewDatabase(cfg.DatabasePath())
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			if err := db.SeedAppSettings(store.AppSettings{
				MaxScale:     cfg.MaxScale,
				TargetMaxDim: cfg.TargetMaxDim,
			}); err != nil {
				return err
			}

			cat, err := loadCatalog(cfg.CatalogFile)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			slog.Info("catalog loaded", "brands", len(cat.Brands), "file", cfg.CatalogFile)

			if err := os.MkdirAll(cfg.HoldsPath(), 0o755); err != nil {
				return fmt.Errorf("failed to create holds directory: %w", err)
			}
			if err := os.MkdirAll(cfg.BrandsPath(), 0o755); err != nil {
				return fmt.Errorf("failed to create brands directory: %w", err)
			}

			ws := api.NewWebServer(db, cat, cfg)
			return ws.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides CLIMBCRAFT_PORT)")

	return cmd
}
