package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/dialsync/internal/services"
	"github.com/desertthunder/dialsync/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	var sourceService services.SourceService
	var directoryService services.DirectoryService

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if config.Credentials.HubSpot.APIKey != "" {
		if svc, err := services.NewHubSpotService(map[string]string{
			"api_key":  config.Credentials.HubSpot.APIKey,
			"base_url": config.Credentials.HubSpot.BaseURL,
		}); err == nil {
			sourceService = svc
		}
	}

	if config.Credentials.Dialpad.APIKey != "" {
		if svc, err := services.NewDialpadService(map[string]string{
			"api_key":  config.Credentials.Dialpad.APIKey,
			"base_url": config.Credentials.Dialpad.BaseURL,
		}); err == nil {
			directoryService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Source:    sourceService,
		Directory: directoryService,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "dialsync",
		Usage:    "Sync CRM contacts into the shared phone directory",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrScheduleSkipped) {
			// Gate closed is a normal outcome for a scheduled invocation.
			os.Exit(0)
		}
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
