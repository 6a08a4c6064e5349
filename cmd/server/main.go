package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/cci/internal/config"
	"github.com/tensorplex-labs/cci/internal/server"
	"github.com/tensorplex-labs/cci/internal/utils/logger"
	"github.com/tensorplex-labs/cci/internal/utils/redis"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting cci server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}
	if _, err := cfg.CCIEnvConfig.Options(); err != nil {
		log.Fatal().Err(err).Msg("invalid computation defaults")
	}

	var opts []server.ServerOption
	if cfg.RedisHost != "" {
		r, err := redis.NewRedis(&cfg.RedisEnvConfig)
		if err != nil {
			log.Error().Err(err).Msg("failed to init redis client, continuing without result cache")
		} else {
			defer r.Close()
			opts = append(opts, server.WithCache(r, cfg.CacheTTL))
		}
	}

	s := server.NewServer(&cfg.ServerEnvConfig, cfg.CCIEnvConfig, opts...)

	// stop on SIGINT/SIGTERM; Start shuts the app down once ctx is done
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}
