package main

import (
	"context"
	"log"

	"heartrisk/internal/config"
	"heartrisk/internal/container"
	"heartrisk/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx := context.Background()
	appContainer, err := container.New(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Load the model and dataset up front; a failure only disables the
	// affected pages.
	appContainer.Warm(ctx)

	server, err := ui.NewServer(ui.ServerConfig{
		DefaultProfile: appConfig.UI.DefaultProfile,
		CORSOrigins:    appConfig.Server.CORSOrigins,
	}, appContainer.Deps())
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := ui.Serve(":"+appConfig.Server.Port, server.Handler(), appConfig.Server.ShutdownTimeout, appContainer.Logger.With("http")); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
