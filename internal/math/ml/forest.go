package ml

import (
	"fmt"

	"github.com/rs/zerolog/log"

	randomforest "github.com/malaschitz/randomForest"
)

// RandomForest is a random forest classifier over float feature vectors.
// After training it is only read, so it can be shared between go routines.
type RandomForest struct {
	trees    int
	features int
	forest   *randomforest.Forest
}

// NewForest creates a new forest with n trees.
func NewForest(n int) *RandomForest {
	return &RandomForest{
		trees: n,
	}
}

// Train fits the forest on the given data and returns the feature importance.
// Classes are expected to be indexed from 0 and at least two of them must be present.
func (rf *RandomForest) Train(ds Dataset) ([]float64, error) {
	if err := ds.Check(); err != nil {
		return nil, fmt.Errorf("could not train forest: %w", err)
	}
	if classes := ds.Classes(); len(classes) < 2 {
		return nil, fmt.Errorf("could not train forest: need at least 2 classes but got %v", classes)
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: ds.X, Class: ds.Y}
	forest.Train(rf.trees)
	rf.forest = forest
	rf.features = len(ds.X[0])
	log.Info().
		Int("trees", rf.trees).
		Int("samples", len(ds.X)).
		Int("features", rf.features).
		Msg("trained random forest")
	return forest.FeatureImportance, nil
}

// Trained checks if the forest is ready for predictions.
func (rf *RandomForest) Trained() bool {
	return rf.forest != nil
}

// Vote returns the share of trees voting for each class.
func (rf *RandomForest) Vote(x []float64) ([]float64, error) {
	if rf.forest == nil {
		return nil, fmt.Errorf("no forest trained")
	}
	if len(x) != rf.features {
		return nil, fmt.Errorf("expected %d features but got %d", rf.features, len(x))
	}
	return rf.forest.Vote(x), nil
}

// Predict returns the class with the most votes.
func (rf *RandomForest) Predict(x []float64) (int, error) {
	votes, err := rf.Vote(x)
	if err != nil {
		return -1, err
	}
	return ArgMax(votes), nil
}

// ArgMax returns the index of the largest value, the first one in case of ties.
func ArgMax(vv []float64) int {
	idx := -1
	max := 0.0
	for i, v := range vv {
		if idx < 0 || v > max {
			idx = i
			max = v
		}
	}
	return idx
}
