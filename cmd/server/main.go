package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"harshagw/qanun/internal/app"
	"harshagw/qanun/internal/logger"
	"harshagw/qanun/internal/metrics"
	"harshagw/qanun/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := app.Logger(cfg)
	if !cfg.Log.Pretty {
		gin.SetMode(gin.ReleaseMode)
	}

	var m *metrics.Metrics
	if cfg.Server.Metrics {
		m = metrics.New()
	}

	lib, err := app.Library(cfg, log, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open library")
	}
	defer lib.Close()

	// Warm the index in the background; handlers report ready:false until
	// it is built.
	go func() {
		idx, err := lib.Index()
		if err != nil {
			log.Error().Err(err).Msg("index build failed")
			return
		}
		log.Info().Int("articles", idx.Len()).Uint64("terms", idx.Vocabulary()).Msg("index ready")
	}()

	srv := server.New(lib, server.Options{
		Limit:   cfg.Search.Limit,
		Metrics: m,
		Logger:  logger.Component(log, "http"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
