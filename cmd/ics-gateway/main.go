package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/rezonia/ics-einvoice/internal/codes"
	"github.com/rezonia/ics-einvoice/internal/config"
	"github.com/rezonia/ics-einvoice/internal/logger"
	"github.com/rezonia/ics-einvoice/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}

	if err := codes.Init(); err != nil {
		return fmt.Errorf("load code tables: %w", err)
	}

	srv := server.NewServer(&server.Config{
		Address:          cfg.ServerAddress,
		APIURL:           cfg.APIURL,
		StrictDecode:     cfg.StrictDecode,
		HTTPTimeout:      cfg.HTTPTimeout,
		BatchConcurrency: cfg.BatchConcurrency,
		ReadTimeout:      cfg.ServerReadTimeout,
		WriteTimeout:     cfg.ServerWriteTimeout,
		Debug:            cfg.ServerDebug,
	}, server.WithLogger(logger.WithComponent("gateway")))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("address", cfg.ServerAddress).
		Str("api_url", cfg.APIURL).
		Bool("strict_decode", cfg.StrictDecode).
		Msg("starting ICS gateway")

	if err := srv.RunContext(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
