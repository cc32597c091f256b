package trainer

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/drakos74/free-transit/internal/catalogue"
	"github.com/drakos74/free-transit/internal/classifier"
	"github.com/drakos74/free-transit/internal/math/ml"
	"github.com/drakos74/free-transit/internal/model"
)

// SyntheticSource is the source name of the generated datasets.
const SyntheticSource = "synthetic"

func names() []string {
	nn := make([]string, len(classifier.ForestFields))
	for i, f := range classifier.ForestFields {
		nn[i] = string(f)
	}
	return nn
}

// Class returns the training class for the given disposition.
func Class(l model.Label) (int, bool) {
	switch {
	case l == model.NoLabel:
		return 0, false
	case l.Exoplanet():
		return classifier.ClassExoplanet, true
	}
	return classifier.ClassFalsePositive, true
}

// FromRows builds the dataset from the labelled rows of a catalogue.
// Rows without a disposition or with invalid features are skipped.
func FromRows(rows []catalogue.Row) (ml.Dataset, error) {
	ds := ml.NewDataset(names()...)
	skipped := 0
	for _, row := range rows {
		y, ok := Class(row.Disposition)
		if !ok {
			skipped++
			continue
		}
		record, err := classifier.Validate(row.Features)
		if err != nil {
			skipped++
			log.Debug().Err(err).Int("line", row.Line).Msg("skipping row")
			continue
		}
		ds.Add(classifier.Vector(record.Features), y)
	}
	log.Info().
		Int("rows", len(rows)).
		Int("samples", ds.Len()).
		Int("skipped", skipped).
		Msg("built dataset")
	if ds.Len() == 0 {
		return ds, fmt.Errorf("no labelled rows with valid features in %d rows", len(rows))
	}
	return ds, nil
}

// population describes the distributions of one class of signals.
type population struct {
	period    distuv.Exponential
	duration  distuv.Normal
	depth     distuv.Normal
	magnitude distuv.Normal
	radius    distuv.Exponential
	snr       distuv.Normal
}

func newPopulation(exoplanet bool, src rand.Source) population {
	if exoplanet {
		return population{
			period:    distuv.Exponential{Rate: 1.0 / 20, Src: src},
			duration:  distuv.Normal{Mu: 3, Sigma: 0.5, Src: src},
			depth:     distuv.Normal{Mu: 0.01, Sigma: 0.003, Src: src},
			magnitude: distuv.Normal{Mu: 12, Sigma: 2, Src: src},
			radius:    distuv.Exponential{Rate: 1 / 1.5, Src: src},
			snr:       distuv.Normal{Mu: 30, Sigma: 10, Src: src},
		}
	}
	return population{
		period:    distuv.Exponential{Rate: 1.0 / 15, Src: src},
		duration:  distuv.Normal{Mu: 2, Sigma: 1, Src: src},
		depth:     distuv.Normal{Mu: 0.005, Sigma: 0.002, Src: src},
		magnitude: distuv.Normal{Mu: 13, Sigma: 2, Src: src},
		radius:    distuv.Exponential{Rate: 1 / 0.8, Src: src},
		snr:       distuv.Normal{Mu: 12, Sigma: 6, Src: src},
	}
}

func (p population) sample() model.FeatureRecord {
	return model.FeatureRecord{
		model.OrbitalPeriod:    atLeast(p.period.Rand(), 0.1),
		model.TransitDuration:  atLeast(p.duration.Rand(), 0.1),
		model.TransitDepth:     atLeast(p.depth.Rand(), 1e-5),
		model.StellarMagnitude: p.magnitude.Rand(),
		model.PlanetRadius:     p.radius.Rand(),
		model.SNR:              atLeast(p.snr.Rand(), 0),
	}
}

func atLeast(v, min float64) float64 {
	return math.Max(v, min)
}

// Synthetic generates a balanced dataset of n samples from two class-conditional populations.
// The same seed always produces the same dataset.
func Synthetic(n int, seed uint64) ml.Dataset {
	src := rand.NewPCG(seed, seed+1)
	populations := map[int]population{
		classifier.ClassExoplanet:     newPopulation(true, src),
		classifier.ClassFalsePositive: newPopulation(false, src),
	}
	ds := ml.NewDataset(names()...)
	for i := 0; i < n; i++ {
		y := i % 2
		record, err := classifier.Validate(populations[y].sample())
		if err != nil {
			// cannot happen with the clipped values
			log.Error().Err(err).Msg("invalid synthetic sample")
			continue
		}
		ds.Add(classifier.Vector(record.Features), y)
	}
	return ds
}
