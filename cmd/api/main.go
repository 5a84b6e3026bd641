package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"

	"github.com/wolfman30/clara-insurance-guide/cmd/mainconfig"
	"github.com/wolfman30/clara-insurance-guide/internal/app/bootstrap"
	appconfig "github.com/wolfman30/clara-insurance-guide/internal/config"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting clara chat API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	awsCfg, err := loadAWS(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.Build(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := newServer(cfg, app.Handler)

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		app.Close()
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// loadAWS returns nil when nothing configured needs AWS.
func loadAWS(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*aws.Config, error) {
	if !mainconfig.NeedsAWS(cfg) {
		logger.Info("no AWS-backed feature configured")
		return nil, nil
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &awsCfg, nil
}

// newServer leaves read and write deadlines unset so /ws/chat sockets and
// slow model replies are not cut off; ReadHeaderTimeout still bounds slow
// clients.
func newServer(cfg *appconfig.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
