package classifier

import (
	"math"

	transitmath "github.com/drakos74/free-transit/internal/math"
	"github.com/drakos74/free-transit/internal/model"
)

// Record is a feature record that passed the validation.
// It can only be created through Validate.
type Record struct {
	model.Features
	valid bool
}

// Valid checks if the record was created by the validation.
func (r Record) Valid() bool {
	return r.valid
}

// Validate checks the raw record and converts it into typed features.
// All problems are collected before returning, so that the caller can report them at once.
// Absent optional fields receive their documented defaults.
func Validate(raw model.FeatureRecord) (Record, error) {
	verr := new(ValidationError)
	var features model.Features

	for _, field := range model.Fields {
		if !raw.Has(field) {
			if field.IsRequired() {
				verr.add(field, "missing")
			}
			continue
		}
		v, err := model.Float(raw[field])
		if err != nil {
			verr.add(field, "not a number")
			continue
		}
		if !transitmath.Finite(v) {
			verr.add(field, "not a finite number")
			continue
		}
		if field.IsRequired() && v <= 0 {
			verr.add(field, "must be positive")
			continue
		}
		if model.NonNegative[field] && v < 0 {
			verr.add(field, "must not be negative")
			continue
		}
		features.Set(field, v)
	}

	if !verr.empty() {
		return Record{}, verr
	}

	applyDefaults(raw, &features)

	return Record{
		Features: features,
		valid:    true,
	}, nil
}

func applyDefaults(raw model.FeatureRecord, features *model.Features) {
	defaults := []struct {
		field model.Field
		value func(f model.Features) float64
	}{
		{model.StellarTemperature, constant(DefaultStellarTemperature)},
		{model.StellarRadius, constant(DefaultStellarRadius)},
		{model.StellarMagnitude, constant(DefaultStellarMagnitude)},
		{model.SurfaceGravity, constant(DefaultSurfaceGravity)},
		{model.ImpactParameter, constant(DefaultImpactParameter)},
		// derived from the transit geometry
		{model.PlanetRadius, PlanetRadiusFromDepth},
		{model.InsolationFlux, InsolationFromOrbit},
	}
	for _, d := range defaults {
		if raw.Has(d.field) {
			continue
		}
		features.Set(d.field, d.value(*features))
		features.Defaulted = append(features.Defaulted, d.field)
	}
}

func constant(v float64) func(f model.Features) float64 {
	return func(f model.Features) float64 {
		return v
	}
}

// PlanetRadiusFromDepth estimates the planet radius in earth radii, as depth = (Rp/R*)^2.
func PlanetRadiusFromDepth(f model.Features) float64 {
	return math.Sqrt(f.TransitDepth) * f.StellarRadius * earthRadiiPerSolarRadius
}

// InsolationFromOrbit estimates the insolation in earth flux units,
// assuming a solar mass host for the semi-major axis.
func InsolationFromOrbit(f model.Features) float64 {
	a := math.Pow(f.OrbitalPeriod/daysPerYear, 2.0/3.0)
	t := f.StellarTemperature / DefaultStellarTemperature
	return f.StellarRadius * f.StellarRadius * math.Pow(t, 4) / (a * a)
}
