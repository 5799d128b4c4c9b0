package main

import (
	"os"
	"path/filepath"

	"github.com/yigit/certdesk/internal/config"
	"github.com/yigit/certdesk/internal/pkg/logger"
	"github.com/yigit/certdesk/internal/server"
)

// @title Certdesk API
// @version 1.0
// @description School register administration with leave and bonafide certificate issuance

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

func main() {
	configPath := config.GetEnv("CERTDESK_CONFIG", filepath.Join("configs", "config.yaml"))

	srv, err := server.NewServer(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
