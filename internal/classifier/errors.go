package classifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/drakos74/free-transit/internal/model"
)

// MissingFeatures is the message reported to the user for records that lack required fields.
const MissingFeatures = "Missing required features"

// ErrMissingFeatures matches validation errors for records that lack required fields.
var ErrMissingFeatures = errors.New("missing required features")

// ValidationError lists all the problems of a record.
type ValidationError struct {
	// Missing are the required fields that are absent or not valid.
	Missing []model.Field `json:"missing,omitempty"`
	// Invalid are the optional fields that carry values we cannot use.
	Invalid []model.Field `json:"invalid,omitempty"`
	// Reasons explains each problem by field.
	Reasons map[model.Field]string `json:"reasons,omitempty"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Missing)+len(e.Invalid))
	for _, f := range append(append([]model.Field{}, e.Missing...), e.Invalid...) {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Reasons[f]))
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s [%s]", ErrMissingFeatures.Error(), strings.Join(parts, ", "))
	}
	return fmt.Sprintf("invalid features [%s]", strings.Join(parts, ", "))
}

// Unwrap allows to match missing features with errors.Is.
func (e *ValidationError) Unwrap() error {
	if len(e.Missing) > 0 {
		return ErrMissingFeatures
	}
	return nil
}

func (e *ValidationError) add(f model.Field, reason string) {
	if e.Reasons == nil {
		e.Reasons = make(map[model.Field]string)
	}
	e.Reasons[f] = reason
	if f.IsRequired() {
		e.Missing = append(e.Missing, f)
	} else {
		e.Invalid = append(e.Invalid, f)
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

// ComputationError signals that the decision procedure failed for a valid record.
type ComputationError struct {
	Model string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("could not compute verdict with '%s': %v", e.Model, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
