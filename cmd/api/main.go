package main

import (
	"net/http"
	"time"

	"chatwrapped-go/internal/api"
	"chatwrapped-go/internal/config"
	"chatwrapped-go/internal/logger"
	"chatwrapped-go/internal/processor"
	"chatwrapped-go/internal/render"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // loads .env

	cfg, err := config.Load()
	log := logger.NewWithOptions(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.WithField("service", "chatwrapped-go").Info("starting service")

	var renderer processor.VideoRenderer
	r, err := render.New(cfg, log)
	if err != nil {
		log.WithError(err).Warn("video rendering disabled")
	} else {
		renderer = r
		log.WithField("render_dir", cfg.RenderDir).WithField("output_dir", cfg.OutputDir).Info("video rendering enabled")
	}

	proc, err := processor.New(cfg, renderer, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create processor")
	}

	server := api.NewServer(proc, log, cfg.MaxUploadBytes())
	srv := server.NewHTTPServer(cfg.Port, cfg.RenderTimeout+30*time.Second)
	log.WithField("addr", srv.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
