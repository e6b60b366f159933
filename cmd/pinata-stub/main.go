package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/yourname/pin_relay/internal/app/stubhttp"
	"github.com/yourname/pin_relay/internal/logging"
	"github.com/yourname/pin_relay/internal/repo"
	"github.com/yourname/pin_relay/pkg/pinataclient"
)

const (
	defaultStubAddr = ":8081"
	apiKeyEnv       = "PINATA_API_KEY"
	apiSecretEnv    = "PINATA_API_SECRET"
)

func main() {
	addr := flag.String("addr", defaultStubAddr, "listen address")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	_ = godotenv.Load()
	logging.Setup(logging.Options{Debug: *debug})

	creds := pinataclient.Credentials{
		APIKey:    os.Getenv(apiKeyEnv),
		APISecret: os.Getenv(apiSecretEnv),
	}
	if creds.APIKey == "" || creds.APISecret == "" {
		log.Fatal().Msgf("%s and %s must be set", apiKeyEnv, apiSecretEnv)
	}

	pins := repo.NewMemoryStore()
	server := &http.Server{
		Addr:              *addr,
		Handler:           stubhttp.New(creds, pins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("stub shutdown")
		}
	}()

	log.Info().Str("addr", *addr).Msg("pinata stub listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}
	stop()
	<-idle
	log.Info().Int("pins", len(pins.List())).Msg("pinata stub stopped")
}
