package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ezsplit/ezsplit-go/internal/config"
	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	gin.SetMode(router.GinMode())

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Human readable logs for development, JSON otherwise.
	output := io.Writer(os.Stdout)
	if cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if gin.IsDebugging() {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(output).With().Timestamp().Logger()

	if err := os.MkdirAll(filepath.Dir(cfg.ServerDBPath), os.ModePerm); err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := models.Connect(cfg.ServerDBPath); err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer func() { _ = models.Close() }()

	r, teardown, err := router.Router(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	log.Info().Str("port", cfg.ServerPort).Msg("ezsplit development server listening")

	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
