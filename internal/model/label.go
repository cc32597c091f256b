package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Label is the disposition assigned to a transit signal.
type Label byte

const (
	// NoLabel defines a missing disposition.
	NoLabel Label = iota
	// Confirmed defines a signal that is caused by a planet with high confidence.
	Confirmed
	// Candidate defines a planetary signal that still lacks confidence.
	Candidate
	// FalsePositive defines a signal that is not caused by a planet.
	FalsePositive
)

var labelNames = map[Label]string{
	NoLabel:       "",
	Confirmed:     "Confirmed",
	Candidate:     "Candidate",
	FalsePositive: "False Positive",
}

// String returns the display name of the label.
func (l Label) String() string {
	return labelNames[l]
}

// Exoplanet checks if the label stands for a planetary signal.
func (l Label) Exoplanet() bool {
	return l == Confirmed || l == Candidate
}

// LabelFromString parses the display name or the kepler archive disposition.
func LabelFromString(s string) (Label, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", " ")) {
	case "CONFIRMED":
		return Confirmed, nil
	case "CANDIDATE":
		return Candidate, nil
	case "FALSE POSITIVE", "FALSEPOSITIVE", "FP":
		return FalsePositive, nil
	case "":
		return NoLabel, nil
	}
	return NoLabel, fmt.Errorf("unknown label '%s'", s)
}

// MarshalJSON encodes the label as its display name.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes the label from its display name.
func (l *Label) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	label, err := LabelFromString(s)
	if err != nil {
		return err
	}
	*l = label
	return nil
}
