// Package classifier maps the features of a transit signal to a disposition with a calibrated confidence.
package classifier

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	transitmath "github.com/drakos74/free-transit/internal/math"
	"github.com/drakos74/free-transit/internal/model"
)

// Classifier validates transit signals and produces verdicts.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	cfg      Config
	scorer   Scorer
	fallback Scorer
	now      func() time.Time
}

// Option configures the classifier.
type Option func(c *Classifier)

// WithScorer sets the decision procedure, the heuristic is used by default.
func WithScorer(s Scorer) Option {
	return func(c *Classifier) {
		c.scorer = s
	}
}

// WithFallback sets the decision procedure to use when the main one fails.
// Verdicts produced by the fallback report it in their model.
func WithFallback(s Scorer) Option {
	return func(c *Classifier) {
		c.fallback = s
	}
}

// WithClock sets the source for the verdict timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		c.now = now
	}
}

// New creates a new classifier.
func New(cfg Config, opts ...Option) *Classifier {
	cfg = cfg.OrDefault()
	c := &Classifier{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scorer == nil {
		c.scorer = NewHeuristic(cfg)
	}
	return c
}

// Config returns the thresholds the classifier works with.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Model returns the name of the main decision procedure.
func (c *Classifier) Model() string {
	return c.scorer.Name()
}

// Validate checks the raw record, see Validate.
func (c *Classifier) Validate(raw model.FeatureRecord) (Record, error) {
	return Validate(raw)
}

// Classify validates and predicts in one go.
func (c *Classifier) Classify(raw model.FeatureRecord) (model.Verdict, error) {
	record, err := c.Validate(raw)
	if err != nil {
		return model.Verdict{}, err
	}
	return c.Predict(record)
}

// Predict produces the verdict for a validated record.
// It either returns a complete verdict or an error, never a partial one.
// Passing a record that did not come from Validate is a programming error and panics.
func (c *Classifier) Predict(record Record) (model.Verdict, error) {
	if !record.valid {
		panic("classifier: predict called with a record that did not pass validation")
	}

	modelUsed := c.scorer.Name()
	score, err := c.scorer.Score(record.Features)
	if err != nil {
		if c.fallback == nil {
			return model.Verdict{}, &ComputationError{Model: modelUsed, Err: err}
		}
		log.Warn().Err(err).
			Str("model", modelUsed).
			Str("fallback", c.fallback.Name()).
			Msg("falling back for prediction")
		modelUsed = FallbackKey
		score, err = c.fallback.Score(record.Features)
		if err != nil {
			return model.Verdict{}, &ComputationError{Model: modelUsed, Err: err}
		}
	}
	if !transitmath.Finite(score.Confidence) {
		return model.Verdict{}, &ComputationError{
			Model: modelUsed,
			Err:   fmt.Errorf("confidence is not a number: %v", score.Confidence),
		}
	}

	reasons := c.vet(record.Features)
	exoplanet := score.Exoplanet && len(reasons) == 0
	confidence := transitmath.Clamp(score.Confidence, c.cfg.ConfidenceFloor, c.cfg.ConfidenceCap)

	label := model.FalsePositive
	if exoplanet {
		label = model.Candidate
		if confidence >= c.cfg.ConfirmedConfidence {
			label = model.Confirmed
		}
	}

	pExoplanet, pFalsePositive := confidence, 1-confidence
	if !exoplanet {
		pExoplanet, pFalsePositive = pFalsePositive, pExoplanet
	}

	return model.Verdict{
		Label:                    label,
		Confidence:               confidence,
		ProbabilityExoplanet:     pExoplanet,
		ProbabilityFalsePositive: pFalsePositive,
		Features:                 record.Features,
		ModelUsed:                modelUsed,
		Reasons:                  reasons,
		Timestamp:                c.now().UTC(),
	}, nil
}

// vet returns the reasons that disqualify the signal from being planetary.
func (c *Classifier) vet(f model.Features) []string {
	reasons := make([]string, 0)
	if f.SNR != nil && *f.SNR < c.cfg.MinSNR {
		reasons = append(reasons, fmt.Sprintf("snr %s below %s", transitmath.Format(*f.SNR), transitmath.Format(c.cfg.MinSNR)))
	}
	// a radius derived from the depth is not evidence on its own
	if !f.IsDefaulted(model.PlanetRadius) && f.PlanetRadius > c.cfg.MaxPlanetRadius {
		reasons = append(reasons, fmt.Sprintf("planet radius %s above %s", transitmath.Format(f.PlanetRadius), transitmath.Format(c.cfg.MaxPlanetRadius)))
	}
	if len(reasons) == 0 {
		return nil
	}
	return reasons
}
