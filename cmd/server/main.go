package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	transit "github.com/drakos74/free-transit/internal"
	"github.com/drakos74/free-transit/internal/api"
	"github.com/drakos74/free-transit/internal/catalogue"
	"github.com/drakos74/free-transit/internal/config"
	"github.com/drakos74/free-transit/internal/server"
	"github.com/drakos74/free-transit/internal/trainer"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	cfg.SetupLogging()

	ctx, cnl := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cnl()

	shard, closeStorage, err := cfg.Shard(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("could not open storage")
	}
	defer func() {
		if err := closeStorage(); err != nil {
			log.Error().Err(err).Msg("could not close storage")
		}
	}()

	repository, err := catalogue.NewRepository(shard)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create catalogue")
	}
	reports, err := trainer.NewReports(shard)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create report storage")
	}

	engine := transit.NewEngine(transit.Options{
		Classifier: cfg.Classifier,
		Training:   cfg.Training,
		Forest:     cfg.Model == config.ForestModel,
		Dataset:    cfg.Dataset,
		Fallback:   cfg.Fallback,
		Workers:    cfg.Workers,
		Aliases:    cfg.Aliases,
	}, repository, reports)
	if err := engine.Start(); err != nil {
		log.Fatal().Err(err).Msg("could not start engine")
	}
	if cfg.Retrain != "" {
		if err := engine.Schedule(cfg.Retrain); err != nil {
			log.Fatal().Err(err).Msg("could not schedule training")
		}
	}
	defer engine.Stop()

	s := server.NewServer("transit", cfg.Port).
		AllowOrigins(cfg.CORSOrigins...).
		Add(api.New(engine, cfg.LogLevel == "debug").Routes()...)
	if cfg.LogLevel == "debug" {
		s.Debug()
	}

	// this is a long running task ... until we get a signal
	if err := s.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
