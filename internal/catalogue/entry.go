// Package catalogue keeps the classified transit signals and moves them in and out of csv files.
package catalogue

import (
	"github.com/drakos74/free-transit/internal/model"
)

// Source is the name of the catalogue as a training source.
const Source = "catalogue"

// Entry is a transit signal of the catalogue together with its verdict.
type Entry struct {
	ID          string              `json:"id"`
	Name        string              `json:"name,omitempty"`
	Disposition model.Label         `json:"disposition"`
	Features    model.FeatureRecord `json:"features"`
	Verdict     *model.Verdict      `json:"verdict,omitempty"`
	// Error holds the reason the signal could not be classified.
	Error string `json:"error,omitempty"`
}

// Classified checks if the entry carries a verdict.
func (e Entry) Classified() bool {
	return e.Verdict != nil
}

// Row is a transit signal read from an external source.
type Row struct {
	Line        int
	ID          string
	Name        string
	Disposition model.Label
	Features    model.FeatureRecord
}
