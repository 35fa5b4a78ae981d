package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"zhypo/app"
	"zhypo/domain/distribution"
	"zhypo/internal"
	"zhypo/internal/api"
	"zhypo/internal/config"
	"zhypo/internal/validation"
	"zhypo/ui"
)

// chartWidth is the rendered SVG width; it also picks the tick density.
const chartWidth = 600

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level))

	service := app.NewSimulationService(
		validation.Limits{MinSampleSize: appConfig.Simulation.MinSampleSize},
		distribution.Options{
			Points: appConfig.Simulation.CurvePoints,
			SpanSE: appConfig.Simulation.CurveSpanSE,
			Width:  chartWidth,
		},
		logger,
	)

	engine := api.NewRouter(api.NewHandler(service, appConfig.Simulation.DefaultAlpha, logger), appConfig.Server.GinMode)

	uiApp, err := ui.NewApp(ui.Config{
		DefaultAlpha: appConfig.Simulation.DefaultAlpha,
		FormLimits:   ui.DefaultFormLimits(),
		ChartWidth:   chartWidth,
	}, service, engine, logger)
	if err != nil {
		log.Fatalf("Failed to initialize UI: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: uiApp,
	}

	go func() {
		logger.Info("Starting zhypo server on port %s", appConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down (timeout %s)", appConfig.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
