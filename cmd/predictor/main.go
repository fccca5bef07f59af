// Command predictor serves a single form profile without the dashboard or the
// JSON API.
package main

import (
	"context"
	"flag"
	"log"

	"heartrisk/internal/config"
	"heartrisk/internal/container"
	"heartrisk/ui"

	"github.com/joho/godotenv"
)

func main() {
	profile := flag.String("profile", "", "form profile to serve (defaults to DEFAULT_PROFILE)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appConfig.UI.EDAEnabled = false
	if *profile == "" {
		*profile = appConfig.UI.DefaultProfile
	}

	ctx := context.Background()
	appContainer, err := container.New(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())
	appContainer.Warm(ctx)

	app, err := ui.NewApp(ui.AppConfig{Profile: *profile}, appContainer.Deps())
	if err != nil {
		log.Fatal("Failed to create predictor:", err)
	}

	if err := ui.Serve(":"+appConfig.Server.Port, app.Handler(), appConfig.Server.ShutdownTimeout, appContainer.Logger.With("http")); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
