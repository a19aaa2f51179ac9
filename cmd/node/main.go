package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stratastats/adapters/postgres"
	"stratastats/adapters/stats/engine"
	"stratastats/adapters/tabular"
	"stratastats/api"
	"stratastats/app"
	"stratastats/domain/core"
	"stratastats/domain/privacy"
	"stratastats/internal"
	"stratastats/internal/config"
	"stratastats/internal/federation"
	"stratastats/ports"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "strata-node",
		Short: "Per-site partial statistics node for federated clinical analytics",
	}

	rootCmd.AddCommand(
		newComputeCmd(),
		newServeCmd(),
		newFederateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newComputeCmd() *cobra.Command {
	var dataFile string
	var threshold int

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the partial statistics bundle for the local dataset and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dataFile == "" {
				dataFile = cfg.Data.File
			}
			if dataFile == "" {
				return fmt.Errorf("no dataset configured: pass --data or set DATA_FILE")
			}
			if threshold < 0 {
				threshold = cfg.Privacy.Threshold
			}

			service, cleanup, err := buildService(cmd.Context(), cfg, dataFile, threshold)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := service.Compute(cmd.Context())
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "path to the local CSV/XLSX dataset")
	cmd.Flags().IntVar(&threshold, "threshold", -1, "privacy threshold (defaults to PRIVACY_THRESHOLD)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the node API for the federation client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Data.File == "" {
				return fmt.Errorf("DATA_FILE must be configured to serve")
			}
			if port == "" {
				port = cfg.Server.Port
			}

			service, cleanup, err := buildService(cmd.Context(), cfg, cfg.Data.File, cfg.Privacy.Threshold)
			if err != nil {
				return err
			}
			defer cleanup()

			server := api.NewServer(service, internal.DefaultLogger)
			return server.ListenAndServe(port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (defaults to PORT)")
	return cmd
}

func newFederateCmd() *cobra.Command {
	var dataDir string
	var threshold int

	cmd := &cobra.Command{
		Use:   "federate",
		Short: "Run a mock collaboration: one site per CSV/XLSX file in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir == "" {
				return fmt.Errorf("--data-dir is required")
			}
			entries, err := os.ReadDir(dataDir)
			if err != nil {
				return fmt.Errorf("failed to read data dir: %w", err)
			}

			eng := engine.New(privacy.Policy{Threshold: threshold})
			collab := federation.NewMockCollaboration(eng, internal.DefaultLogger)
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext != ".csv" && ext != ".xlsx" {
					continue
				}
				site := strings.TrimSuffix(entry.Name(), ext)
				reader := tabular.NewDataReader(filepath.Join(dataDir, entry.Name()))
				if err := collab.RegisterSite(site, reader); err != nil {
					return err
				}
			}
			if len(collab.SiteNames()) == 0 {
				return fmt.Errorf("no datasets found in %s", dataDir)
			}

			results, err := collab.RunAll(cmd.Context())
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(results)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory with one dataset per site")
	cmd.Flags().IntVar(&threshold, "threshold", privacy.DefaultThreshold, "privacy threshold")
	return cmd
}

// buildService wires reader, engine and optional Postgres result
// store into the app service.
func buildService(ctx context.Context, cfg *config.Config, dataFile string, threshold int) (*app.PartialStatsService, func(), error) {
	reader := tabular.NewDataReader(dataFile)
	eng := engine.New(privacy.Policy{Threshold: threshold})

	var repo ports.ResultRepository
	cleanup := func() {}
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		repo = postgres.NewResultRepository(db)
		cleanup = func() { db.Close() }
	}

	service := app.NewPartialStatsService(eng, reader, repo, core.SiteID(cfg.Node.SiteID), internal.DefaultLogger)
	return service, cleanup, nil
}
