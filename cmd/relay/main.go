package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourname/pin_relay/internal/app/resthttp"
	"github.com/yourname/pin_relay/internal/config"
	"github.com/yourname/pin_relay/internal/logging"
)

// main поднимает HTTP-релей к Pinata и корректно завершает его по сигналу.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(logging.Options{
		Debug:      cfg.DebugEnabled(),
		Production: cfg.IsProduction(),
	})

	if cfg.IsProduction() && cfg.Key == config.DefaultKey {
		log.Warn().Msg("KEY is left at its development default")
	}

	handler, _, err := resthttp.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// graceful shutdown при получении SIGTERM/SIGINT.
	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("relay shutdown")
		}
	}()

	log.Info().
		Str("addr", cfg.ListenAddr()).
		Str("env", cfg.Env).
		Str("pinata", cfg.Pinata.URL).
		Msg("relay listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}
	stop()
	<-idle
	log.Info().Msg("relay stopped")
}
