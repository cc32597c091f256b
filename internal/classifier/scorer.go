package classifier

import (
	"fmt"

	transitmath "github.com/drakos74/free-transit/internal/math"
	"github.com/drakos74/free-transit/internal/math/ml"
	"github.com/drakos74/free-transit/internal/model"
)

const (
	// HeuristicKey is the name of the threshold based decision procedure.
	HeuristicKey = "heuristic"
	// ForestKey is the name of the random forest decision procedure.
	ForestKey = "random-forest"
	// FallbackKey is reported when the fallback procedure produced the verdict.
	FallbackKey = "heuristic-fallback"
)

// Class indexes of the trained models.
const (
	ClassFalsePositive = 0
	ClassExoplanet     = 1
)

// Score is the raw outcome of a decision procedure.
type Score struct {
	Exoplanet  bool
	Confidence float64
}

// Scorer is a decision procedure mapping the features of a signal to a score.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Name() string
	Score(f model.Features) (Score, error)
}

// Heuristic decides on the transit depth alone.
// Confidence grows with the distance of the depth from the threshold.
type Heuristic struct {
	cfg Config
}

// NewHeuristic creates a new heuristic scorer.
func NewHeuristic(cfg Config) *Heuristic {
	return &Heuristic{cfg: cfg}
}

func (h *Heuristic) Name() string {
	return HeuristicKey
}

func (h *Heuristic) Score(f model.Features) (Score, error) {
	distance := f.TransitDepth - h.cfg.DepthThreshold
	return Score{
		Exoplanet:  distance > 0,
		Confidence: transitmath.Saturate(distance, h.cfg.ConfidenceFloor, h.cfg.ConfidenceSlope, h.cfg.ConfidenceCap),
	}, nil
}

// ForestFields are the features the forest is trained on, in vector order.
var ForestFields = []model.Field{
	model.OrbitalPeriod,
	model.TransitDuration,
	model.TransitDepth,
	model.PlanetRadius,
	model.InsolationFlux,
	model.SurfaceGravity,
	model.ImpactParameter,
	model.StellarMagnitude,
	model.StellarTemperature,
	model.StellarRadius,
	model.SNR,
}

// FillVector provides the value for features without a default, when building vectors.
// An absent snr is filled with the reliability threshold.
func FillVector(field model.Field) float64 {
	if field == model.SNR {
		return MinSNR
	}
	return 0
}

// Vector builds the forest input for the given features.
func Vector(f model.Features) []float64 {
	return f.Vector(ForestFields, FillVector)
}

// ForestScorer decides based on the votes of a trained random forest.
type ForestScorer struct {
	forest *ml.RandomForest
}

// NewForestScorer creates a scorer for the given trained forest.
func NewForestScorer(forest *ml.RandomForest) (*ForestScorer, error) {
	if forest == nil || !forest.Trained() {
		return nil, fmt.Errorf("forest is not trained")
	}
	return &ForestScorer{forest: forest}, nil
}

func (s *ForestScorer) Name() string {
	return ForestKey
}

func (s *ForestScorer) Score(f model.Features) (Score, error) {
	votes, err := s.forest.Vote(Vector(f))
	if err != nil {
		return Score{}, err
	}
	if len(votes) <= ClassExoplanet {
		return Score{}, fmt.Errorf("expected votes for %d classes but got %v", ClassExoplanet+1, votes)
	}
	exoplanet := votes[ClassExoplanet] > votes[ClassFalsePositive]
	confidence := votes[ClassFalsePositive]
	if exoplanet {
		confidence = votes[ClassExoplanet]
	}
	return Score{
		Exoplanet:  exoplanet,
		Confidence: confidence,
	}, nil
}
