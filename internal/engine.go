package transit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-transit/internal/catalogue"
	"github.com/drakos74/free-transit/internal/classifier"
	"github.com/drakos74/free-transit/internal/math/ml"
	"github.com/drakos74/free-transit/internal/metrics"
	"github.com/drakos74/free-transit/internal/model"
	"github.com/drakos74/free-transit/internal/trainer"
)

// NoReportErr is returned when no model has been trained yet.
var NoReportErr = errors.New("no model report")

// Options configures the engine.
type Options struct {
	Classifier classifier.Config
	Training   trainer.Config
	// Forest switches from the heuristic to the random forest.
	Forest bool
	// Dataset is the labelled csv to train on, the catalogue or a synthetic dataset are used if empty.
	Dataset  string
	Fallback bool
	Workers  int
	Aliases  model.Aliases
}

// Engine holds the active classifier and keeps the catalogue and the model reports.
// The classifier can be replaced by retraining while requests are served.
type Engine struct {
	opts       Options
	classifier atomic.Pointer[classifier.Classifier]
	report     atomic.Pointer[trainer.Report]
	trainer    *trainer.Trainer
	repository *catalogue.Repository
	reports    *trainer.Reports
	training   *sync.Mutex
	cron       *cron.Cron
}

// NewEngine creates a new engine, classifying with the heuristic until Start is called.
func NewEngine(opts Options, repository *catalogue.Repository, reports *trainer.Reports) *Engine {
	if opts.Aliases == nil {
		opts.Aliases = model.DefaultAliases()
	}
	e := &Engine{
		opts:       opts,
		trainer:    trainer.New(opts.Training),
		repository: repository,
		reports:    reports,
		training:   new(sync.Mutex),
	}
	e.classifier.Store(classifier.New(opts.Classifier))
	return e
}

// Start loads the configured model.
// A forest that cannot be trained leaves the heuristic in place if the fallback is enabled.
func (e *Engine) Start() error {
	if !e.opts.Forest {
		log.Info().Str("model", classifier.HeuristicKey).Msg("classifying with heuristic")
		return nil
	}
	if _, err := e.Train(); err != nil {
		if !e.opts.Fallback {
			return fmt.Errorf("could not load model: %w", err)
		}
		log.Error().Err(err).Msg("could not load model, classifying with heuristic")
	}
	return nil
}

// Schedule retrains the model on the given cron schedule.
func (e *Engine) Schedule(spec string) error {
	if e.cron == nil {
		e.cron = cron.New()
	}
	_, err := e.cron.AddFunc(spec, func() {
		if _, err := e.Train(); err != nil {
			log.Error().Err(err).Msg("could not retrain model")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", spec, err)
	}
	e.cron.Start()
	log.Info().Str("schedule", spec).Msg("scheduled model training")
	return nil
}

// Stop stops the scheduled training and waits for a running one.
func (e *Engine) Stop() {
	if e.cron != nil {
		<-e.cron.Stop().Done()
	}
}

// Classifier returns the active classifier.
func (e *Engine) Classifier() *classifier.Classifier {
	return e.classifier.Load()
}

// Aliases returns the table for the external field names.
func (e *Engine) Aliases() model.Aliases {
	return e.opts.Aliases
}

// Train fits a new forest and makes it the active model.
func (e *Engine) Train() (trainer.Report, error) {
	e.training.Lock()
	defer e.training.Unlock()

	ds, source, err := e.dataset()
	if err != nil {
		return trainer.Report{}, err
	}
	forest, report, err := e.trainer.Train(ds, source)
	if err != nil {
		return trainer.Report{}, err
	}
	scorer, err := classifier.NewForestScorer(forest)
	if err != nil {
		return trainer.Report{}, err
	}
	opts := []classifier.Option{classifier.WithScorer(scorer)}
	if e.opts.Fallback {
		opts = append(opts, classifier.WithFallback(classifier.NewHeuristic(e.opts.Classifier.OrDefault())))
	}
	e.classifier.Store(classifier.New(e.opts.Classifier, opts...))
	e.report.Store(&report)

	if e.reports != nil {
		if err := e.reports.Save(report); err != nil {
			log.Error().Err(err).Str("version", report.Version).Msg("could not save report")
		}
	}
	return report, nil
}

// dataset picks the training data: the configured csv, the labelled catalogue or a synthetic one.
func (e *Engine) dataset() (ml.Dataset, string, error) {
	if e.opts.Dataset != "" {
		f, err := os.Open(e.opts.Dataset)
		if err != nil {
			return ml.Dataset{}, "", fmt.Errorf("could not open dataset: %w", err)
		}
		defer f.Close()
		rows, err := catalogue.ParseCSV(f, e.opts.Aliases)
		if err != nil {
			return ml.Dataset{}, "", fmt.Errorf("could not parse dataset '%s': %w", e.opts.Dataset, err)
		}
		ds, err := trainer.FromRows(rows)
		return ds, e.opts.Dataset, err
	}
	if e.repository != nil {
		entries, err := e.repository.Load()
		if err != nil {
			return ml.Dataset{}, "", err
		}
		rows := make([]catalogue.Row, 0, len(entries))
		for _, entry := range entries {
			if entry.Disposition != model.NoLabel {
				rows = append(rows, catalogue.Row{Disposition: entry.Disposition, Features: entry.Features})
			}
		}
		if len(rows) >= trainer.MinSamples {
			if ds, err := trainer.FromRows(rows); err == nil && len(ds.Classes()) > 1 {
				return ds, catalogue.Source, nil
			}
		}
	}
	return e.trainer.Synthetic(), trainer.SyntheticSource, nil
}

// Report returns the report of the active model.
func (e *Engine) Report() (trainer.Report, error) {
	if r := e.report.Load(); r != nil {
		return *r, nil
	}
	if e.opts.Forest && e.reports != nil {
		return e.reports.Latest()
	}
	return trainer.Report{}, NoReportErr
}

// Classify classifies one raw record.
func (e *Engine) Classify(raw model.FeatureRecord) (model.Verdict, error) {
	verdict, err := e.Classifier().Classify(raw)
	if err != nil {
		var verr *classifier.ValidationError
		if errors.As(err, &verr) {
			metrics.Observer.Rejected(verr.Missing...)
			metrics.Observer.Rejected(verr.Invalid...)
		}
		return model.Verdict{}, err
	}
	metrics.Observer.Classified(verdict)
	return verdict, nil
}

// Import classifies the rows and appends them to the catalogue.
func (e *Engine) Import(ctx context.Context, rows []catalogue.Row) ([]catalogue.Entry, error) {
	entries, err := catalogue.Classify(ctx, e, rows, e.opts.Workers)
	if err != nil {
		return nil, err
	}
	return e.Append(entries...)
}

// Append adds already classified entries to the catalogue.
func (e *Engine) Append(entries ...catalogue.Entry) ([]catalogue.Entry, error) {
	return e.repository.Append(entries...)
}

// Entries returns the catalogue.
func (e *Engine) Entries() ([]catalogue.Entry, error) {
	return e.repository.Load()
}

// Clear empties the catalogue.
func (e *Engine) Clear() error {
	return e.repository.Clear()
}
