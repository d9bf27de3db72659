package main

import (
	"os"

	"admin_console/config"
	"admin_console/internal/clients"
	"admin_console/internal/delivery"
	"admin_console/internal/flash"
	"admin_console/internal/session"
	"admin_console/pkg/clock"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting admin console...")
	logger.Infof("Remote API target: %s", cfg.APIBaseURL)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	api := clients.NewAPIClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	authClient := clients.NewAuthClient(api, cfg.APILoginPath, logger)

	renderer, err := delivery.NewRenderer(cfg.APIBaseURL)
	if err != nil {
		logger.Fatalf("Failed to load page templates: %v", err)
	}

	sessions := session.NewStore(cfg.SessionCookie, cfg.IsProduction(), clock.NewRealClock())
	flashCodec := flash.NewCodec([]byte(cfg.FlashSecret), cfg.SessionCookie+"_flash", cfg.IsProduction())
	handler := delivery.NewHandler(api, authClient, sessions, flashCodec, renderer, cfg.MaxUploadBytes(), logger)

	router := delivery.NewRouter(handler, cfg.CORSOrigins, logger)

	logger.Infof("Admin console listening on port %s", cfg.ConsolePort)
	if err := router.Run(cfg.ConsolePort); err != nil {
		logger.Errorf("Failed to start admin console: %v", err)
		os.Exit(1)
	}
}
