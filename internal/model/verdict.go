package model

import "time"

// Verdict is the outcome of the classification of one transit signal.
// It is a value type and is not modified after creation.
type Verdict struct {
	Label                    Label     `json:"classification"`
	Confidence               float64   `json:"confidence"`
	ProbabilityExoplanet     float64   `json:"probability_exoplanet"`
	ProbabilityFalsePositive float64   `json:"probability_false_positive"`
	Features                 Features  `json:"features"`
	ModelUsed                string    `json:"model_used"`
	Reasons                  []string  `json:"reasons,omitempty"`
	Timestamp                time.Time `json:"timestamp"`
}
