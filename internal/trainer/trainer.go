// Package trainer fits and evaluates the random forest behind the model based classification.
package trainer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-transit/internal/classifier"
	"github.com/drakos74/free-transit/internal/math/ml"
)

// MinSamples is the minimum dataset size we train on.
const MinSamples = 10

// Config defines the training parameters.
type Config struct {
	Trees   int     `yaml:"trees" json:"trees"`
	Split   float64 `yaml:"split" json:"split"`
	Seed    int64   `yaml:"seed" json:"seed"`
	Samples int     `yaml:"samples" json:"samples"`
}

// DefaultConfig returns the default training parameters.
func DefaultConfig() Config {
	return Config{
		Trees:   100,
		Split:   0.8,
		Seed:    42,
		Samples: 2000,
	}
}

// Samples counts the samples used in training.
type Samples struct {
	Total          int `json:"total"`
	Train          int `json:"train"`
	Test           int `json:"test"`
	Exoplanets     int `json:"exoplanets"`
	FalsePositives int `json:"false_positives"`
}

// Report describes a trained model and its performance on the holdout set.
type Report struct {
	Model     string    `json:"model"`
	Version   string    `json:"model_version"`
	Source    string    `json:"source"`
	TrainedAt time.Time `json:"trained_at"`
	Trees     int       `json:"trees"`
	ml.Evaluation
	Importance map[string]float64 `json:"feature_importance"`
	Features   []ml.Summary       `json:"features"`
	Split      Samples            `json:"split"`
}

// Trainer fits random forests on labelled datasets.
type Trainer struct {
	cfg Config
	now func() time.Time
}

// New creates a new trainer.
func New(cfg Config) *Trainer {
	d := DefaultConfig()
	if cfg.Trees <= 0 {
		cfg.Trees = d.Trees
	}
	if cfg.Split <= 0 || cfg.Split >= 1 {
		cfg.Split = d.Split
	}
	if cfg.Samples <= 0 {
		cfg.Samples = d.Samples
	}
	return &Trainer{
		cfg: cfg,
		now: time.Now,
	}
}

// Config returns the training parameters.
func (t *Trainer) Config() Config {
	return t.cfg
}

// Synthetic generates a dataset with the configured size and seed.
func (t *Trainer) Synthetic() ml.Dataset {
	return Synthetic(t.cfg.Samples, uint64(t.cfg.Seed))
}

// Train splits the dataset, fits the forest on the training part and evaluates it on the rest.
func (t *Trainer) Train(ds ml.Dataset, source string) (*ml.RandomForest, Report, error) {
	if err := ds.Check(); err != nil {
		return nil, Report{}, fmt.Errorf("invalid dataset: %w", err)
	}
	if ds.Len() < MinSamples {
		return nil, Report{}, fmt.Errorf("need at least %d samples but got %d", MinSamples, ds.Len())
	}
	train, test := ds.Split(t.cfg.Split, t.cfg.Seed)
	if len(train.Classes()) < 2 {
		return nil, Report{}, fmt.Errorf("training set has a single class %v", train.Classes())
	}

	forest := ml.NewForest(t.cfg.Trees)
	importance, err := forest.Train(train)
	if err != nil {
		return nil, Report{}, fmt.Errorf("could not train: %w", err)
	}

	evaluation, err := ml.Evaluate(forest, test, map[int]string{
		classifier.ClassFalsePositive: "false_positive",
		classifier.ClassExoplanet:     "exoplanet",
	}, classifier.ClassExoplanet)
	if err != nil {
		return nil, Report{}, fmt.Errorf("could not evaluate: %w", err)
	}

	trainedAt := t.now().UTC()
	report := Report{
		Model:      classifier.ForestKey,
		Version:    fmt.Sprintf("%s-%s", classifier.ForestKey, trainedAt.Format("20060102T150405")),
		Source:     source,
		TrainedAt:  trainedAt,
		Trees:      t.cfg.Trees,
		Evaluation: evaluation,
		Importance: t.importance(ds, importance),
		Features:   ml.Describe(ds),
		Split:      count(ds, train, test),
	}
	log.Info().
		Str("version", report.Version).
		Str("source", source).
		Float64("accuracy", report.Accuracy).
		Float64("f1", report.F1Score).
		Msg("trained model")
	return forest, report, nil
}

// importance names the forest importance, falling back to the variance of the features.
func (t *Trainer) importance(ds ml.Dataset, importance []float64) map[string]float64 {
	vv := ml.Normalise(importance)
	total := 0.0
	for _, v := range vv {
		total += v
	}
	if len(vv) != len(ds.Names) || !(total > 0) {
		vv = ml.VarianceImportance(ds)
	}
	named := make(map[string]float64, len(vv))
	for i, v := range vv {
		if i < len(ds.Names) {
			named[ds.Names[i]] = v
		}
	}
	return named
}

func count(ds, train, test ml.Dataset) Samples {
	s := Samples{
		Total: ds.Len(),
		Train: train.Len(),
		Test:  test.Len(),
	}
	for _, y := range ds.Y {
		if y == classifier.ClassExoplanet {
			s.Exoplanets++
		} else {
			s.FalsePositives++
		}
	}
	return s
}
