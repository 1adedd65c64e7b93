package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/skillshare/internal/bootstrap"
	"github.com/yigit/skillshare/internal/db"
	"github.com/yigit/skillshare/internal/pkg/logger"
	"github.com/yigit/skillshare/internal/server"
)

//go:generate swag init -d ../../ -g cmd/api/main.go -o ../../docs --parseInternal

// @title SkillShare API
// @version 1.0
// @description Skill-sharing marketplace: catalog, teaching lifecycle, reviews, sessions and notifications.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), configPath)
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrations(cmd.Context(), configPath)
		},
	}

	root := &cobra.Command{
		Use:           "skillshare",
		Short:         "Skill-sharing marketplace backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (default configs/config.yaml)")
	root.AddCommand(serve, migrate)
	return root
}

func runServer(ctx context.Context, configPath string) error {
	srv, err := server.NewServer(ctx, configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		return err
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return err
	}
	defer database.Close()

	return bootstrap.Migrate(ctx, database, lgr)
}
