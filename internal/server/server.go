// Package server exposes the CCI computation over HTTP.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/cci/internal/cci"
	"github.com/tensorplex-labs/cci/internal/config"
	"github.com/tensorplex-labs/cci/internal/utils/redis"
)

type Server struct {
	App      *fiber.App
	config   *config.ServerEnvConfig
	defaults config.CCIEnvConfig
	cache    redis.RedisInterface
	cacheTTL time.Duration
}

type ServerOption func(*Server)

// WithCache stores computed results under a hash of the request.
func WithCache(cache redis.RedisInterface, ttl time.Duration) ServerOption {
	return func(s *Server) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func NewServer(serverConfig *config.ServerEnvConfig, defaults config.CCIEnvConfig, opts ...ServerOption) *Server {
	if serverConfig == nil {
		serverConfig = &config.ServerEnvConfig{Host: "0.0.0.0", Port: 8888, BodyLimit: 64 * 1024 * 1024}
	}

	log.Info().
		Any("serverConfig", serverConfig).
		Any("defaults", defaults).
		Msg("Server configuration loaded")

	app := fiber.New(fiber.Config{
		ErrorHandler: fiberErrHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		BodyLimit:    serverConfig.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(ZstdMiddleware([]string{HealthRoute}))

	s := &Server{
		App:      app,
		config:   serverConfig,
		defaults: defaults,
	}
	for _, opt := range opts {
		opt(s)
	}

	app.Get(HealthRoute, s.handleHealth)
	app.Post(ComputeRoute, s.handleCompute)
	return s
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("Fiber error handler triggered")

	return ctx.Status(code).JSON(createResponse(map[string]any{}, err))
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(createResponse(HealthResponse{Status: "ok"}, nil))
}

func (s *Server) handleCompute(c *fiber.Ctx) error {
	body := c.Body()

	var req ComputeRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		log.Error().Err(err).Str("route", ComputeRoute).Msg("Failed to parse request body")
		return c.Status(fiber.StatusBadRequest).JSON(createResponse(ComputeResponse{}, err))
	}

	settings := s.settings(req)
	opts, err := settings.Options()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(createResponse(ComputeResponse{}, err))
	}
	if len(req.Boundaries) > 0 {
		opts = append(opts, cci.WithBoundaries(req.Boundaries))
	}

	key := cacheKey(body, settings)
	if cached, ok := s.lookup(c.UserContext(), key); ok {
		return c.JSON(createResponse(ComputeResponse{Result: cached, Cached: true}, nil))
	}

	records, err := req.Sources.ToRecords()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(createResponse(ComputeResponse{}, err))
	}

	startTime := time.Now()
	result, err := cci.NewOrchestrator(opts...).Run(c.UserContext(), records, req.Trials)
	if err != nil {
		log.Error().Err(err).Str("route", ComputeRoute).Msg("CCI computation failed")
		return c.Status(statusFor(err)).JSON(createResponse(ComputeResponse{}, err))
	}
	log.Info().
		Int("trials", len(req.Trials)).
		Int("categories", len(result.Categories)).
		Dur("elapsed", time.Since(startTime)).
		Msg("computed contrasted class information")

	s.store(c.UserContext(), key, result)
	return c.JSON(createResponse(ComputeResponse{Result: result}, nil))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cci.ErrMalformedInput):
		return fiber.StatusBadRequest
	case errors.Is(err, cci.ErrInsufficientSamples), errors.Is(err, cci.ErrDegenerateBaseline):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// settings layers the request overrides on top of the server defaults.
func (s *Server) settings(req ComputeRequest) config.CCIEnvConfig {
	cfg := s.defaults
	if req.Level != "" {
		cfg.Level = req.Level
	}
	if req.Strategy != "" {
		cfg.Strategy = req.Strategy
	}
	if req.Components != 0 {
		cfg.Components = req.Components
	}
	if req.StrictBaseline != nil {
		cfg.StrictBaseline = *req.StrictBaseline
	}
	return cfg
}

// cacheKey hashes the request body with every effective setting that can
// change the result.
func cacheKey(body []byte, settings config.CCIEnvConfig) string {
	h := sha256.New()
	h.Write(body)
	fmt.Fprintf(h, "|%s|%d|%s|%t", settings.Level, settings.Components, settings.Strategy, settings.StrictBaseline)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (s *Server) lookup(ctx context.Context, key string) (cci.Result, bool) {
	if s.cache == nil {
		return cci.Result{}, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("result cache lookup failed")
		return cci.Result{}, false
	}
	if raw == "" {
		return cci.Result{}, false
	}
	var result cci.Result
	if err := sonic.UnmarshalString(raw, &result); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cached result")
		return cci.Result{}, false
	}
	log.Debug().Str("key", key).Msg("result cache hit")
	return result, true
}

func (s *Server) store(ctx context.Context, key string, result cci.Result) {
	if s.cache == nil {
		return
	}
	raw, err := sonic.MarshalString(result)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode result for cache")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to cache result")
	}
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start serves until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.App.Listen(s.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.App.ShutdownWithContext(shutdownCtx)
}
