package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	transit "github.com/drakos74/free-transit/internal"
	"github.com/drakos74/free-transit/internal/catalogue"
	"github.com/drakos74/free-transit/internal/config"
	"github.com/drakos74/free-transit/internal/trainer"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	cfg.SetupLogging()

	dataset := flag.String("dataset", cfg.Dataset, "labelled csv to train on, the catalogue or a synthetic dataset if empty")
	trees := flag.Int("trees", cfg.Training.Trees, "number of trees in the forest")
	flag.Parse()
	cfg.Training.Trees = *trees

	shard, closeStorage, err := cfg.Shard(context.Background())
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("could not open storage")
	}
	defer closeStorage()

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
		Forest:     true,
		Dataset:    *dataset,
		Aliases:    cfg.Aliases,
	}, repository, reports)

	report, err := engine.Train()
	if err != nil {
		log.Fatal().Err(err).Msg("could not train model")
	}

	fmt.Println(report.Summary())
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("could not encode report")
	}
	fmt.Fprintln(os.Stdout, string(b))
}
