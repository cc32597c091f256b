package ml

import (
	"fmt"
	"math"

	"github.com/sjwhitworth/golearn/evaluation"
)

// Classifier is anything that can predict a class for a feature vector.
type Classifier interface {
	Predict(x []float64) (int, error)
}

// Evaluation holds the performance of a classifier on a test set for the positive class.
type Evaluation struct {
	Samples   int                        `json:"samples"`
	Accuracy  float64                    `json:"accuracy"`
	Precision float64                    `json:"precision"`
	Recall    float64                    `json:"recall"`
	F1Score   float64                    `json:"f1_score"`
	Confusion Confusion                  `json:"confusion_matrix"`
	Matrix    evaluation.ConfusionMatrix `json:"-"`
}

// Confusion is the binary confusion matrix for the positive class.
type Confusion struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`
}

// Evaluate runs the classifier over the test set and computes the metrics for the positive class.
// names maps the class index to the class name used in the confusion matrix.
func Evaluate(c Classifier, test Dataset, names map[int]string, positive int) (Evaluation, error) {
	if err := test.Check(); err != nil {
		return Evaluation{}, fmt.Errorf("could not evaluate: %w", err)
	}

	cm := make(evaluation.ConfusionMatrix)
	for _, name := range names {
		cm[name] = make(map[string]int)
	}

	for i, x := range test.X {
		p, err := c.Predict(x)
		if err != nil {
			return Evaluation{}, fmt.Errorf("could not predict sample %d: %w", i, err)
		}
		actual, ok := names[test.Y[i]]
		if !ok {
			return Evaluation{}, fmt.Errorf("unknown class %d", test.Y[i])
		}
		predicted, ok := names[p]
		if !ok {
			return Evaluation{}, fmt.Errorf("unknown predicted class %d", p)
		}
		cm[actual][predicted]++
	}

	class := names[positive]
	return Evaluation{
		Samples:   test.Len(),
		Accuracy:  safe(evaluation.GetAccuracy(cm)),
		Precision: safe(evaluation.GetPrecision(class, cm)),
		Recall:    safe(evaluation.GetRecall(class, cm)),
		F1Score:   safe(evaluation.GetF1Score(class, cm)),
		Confusion: Confusion{
			TruePositives:  int(evaluation.GetTruePositives(class, cm)),
			FalsePositives: int(evaluation.GetFalsePositives(class, cm)),
			TrueNegatives:  int(evaluation.GetTrueNegatives(class, cm)),
			FalseNegatives: int(evaluation.GetFalseNegatives(class, cm)),
		},
		Matrix: cm,
	}, nil
}

// Summary renders the confusion matrix as a table.
func (e Evaluation) Summary() string {
	return evaluation.GetSummary(e.Matrix)
}

// safe replaces undefined ratios e.g. precision without positive predictions.
func safe(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
