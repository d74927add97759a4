package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaronzipp/chrono-agents/internal/config"
	"github.com/aaronzipp/chrono-agents/internal/handlers"
	"github.com/aaronzipp/chrono-agents/internal/logger"
	"github.com/aaronzipp/chrono-agents/internal/session"
	"github.com/aaronzipp/chrono-agents/internal/sse"
	"github.com/aaronzipp/chrono-agents/internal/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.Debug)

	newOptions := func() session.Options {
		opts := session.NewOptions()
		opts.TickInterval = cfg.TickInterval
		opts.AILeaderDelay = cfg.AILeaderDelay
		opts.DefaultDiscussionTime = cfg.DiscussionTime
		opts.ChatRate = rate.Limit(cfg.ChatRate)
		opts.ChatBurst = cfg.ChatBurst
		opts.MemoryEnabled = cfg.MemoryEnabled
		return opts
	}

	ctx := handlers.NewContext(
		store.NewSessionStore(),
		sse.NewHub(cfg.SSEBufferSize, cfg.SSETimeout),
		newOptions,
		cfg.BaseURL,
		cfg.AllowStateReplace,
	)
	if cfg.AllowStateReplace {
		log.Warn().Msg("raw state replace is enabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           ctx.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		log.Info().Str("addr", srv.Addr).Str("base_url", cfg.BaseURL).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
