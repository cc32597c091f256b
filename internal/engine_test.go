package transit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-transit/internal/catalogue"
	"github.com/drakos74/free-transit/internal/classifier"
	"github.com/drakos74/free-transit/internal/model"
	"github.com/drakos74/free-transit/internal/storage"
	"github.com/drakos74/free-transit/internal/storage/file/json"
	"github.com/drakos74/free-transit/internal/trainer"
)

func newEngine(t *testing.T, opts Options) (*Engine, *trainer.Reports) {
	shard := json.LocalShard()
	repository, err := catalogue.NewRepository(shard)
	require.NoError(t, err)
	reports, err := trainer.NewReports(shard)
	require.NoError(t, err)
	return NewEngine(opts, repository, reports), reports
}

func training() trainer.Config {
	return trainer.Config{Trees: 15, Samples: 300, Seed: 3}
}

func labelledRows(n int) []catalogue.Row {
	rows := make([]catalogue.Row, n)
	for i := range rows {
		depth, label := 0.002, model.FalsePositive
		if i%2 == 0 {
			depth, label = 0.02, model.Confirmed
		}
		rows[i] = catalogue.Row{
			ID:          "",
			Disposition: label,
			Features: model.FeatureRecord{
				model.OrbitalPeriod:   10.0 + float64(i),
				model.TransitDuration: 3.0,
				model.TransitDepth:    depth,
				model.SNR:             25.0,
			},
		}
	}
	return rows
}

func TestEngine_Heuristic(t *testing.T) {
	engine, _ := newEngine(t, Options{})
	require.NoError(t, engine.Start())
	assert.Equal(t, classifier.HeuristicKey, engine.Classifier().Model())

	_, err := engine.Report()
	assert.True(t, errors.Is(err, NoReportErr))

	verdict, err := engine.Classify(model.FeatureRecord{
		model.OrbitalPeriod:   3.52,
		model.TransitDuration: 2.8,
		model.TransitDepth:    0.012,
	})
	require.NoError(t, err)
	assert.Equal(t, model.Confirmed, verdict.Label)

	_, err = engine.Classify(model.FeatureRecord{model.OrbitalPeriod: 3.52})
	var verr *classifier.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []model.Field{model.TransitDuration, model.TransitDepth}, verr.Missing)
}

func TestEngine_Forest(t *testing.T) {
	engine, reports := newEngine(t, Options{Forest: true, Fallback: true, Training: training()})
	require.NoError(t, engine.Start())
	assert.Equal(t, classifier.ForestKey, engine.Classifier().Model())

	report, err := engine.Report()
	require.NoError(t, err)
	assert.Equal(t, trainer.SyntheticSource, report.Source)

	stored, err := reports.Latest()
	require.NoError(t, err)
	assert.Equal(t, report.Version, stored.Version)

	verdict, err := engine.Classify(model.FeatureRecord{
		model.OrbitalPeriod:   3.52,
		model.TransitDuration: 2.8,
		model.TransitDepth:    0.015,
		model.SNR:             30.0,
	})
	require.NoError(t, err)
	assert.Equal(t, classifier.ForestKey, verdict.ModelUsed)
	assert.InDelta(t, 1.0, verdict.ProbabilityExoplanet+verdict.ProbabilityFalsePositive, 1e-9)
}

func TestEngine_MissingDataset(t *testing.T) {
	dataset := filepath.Join(t.TempDir(), "missing.csv")

	engine, _ := newEngine(t, Options{Forest: true, Fallback: true, Dataset: dataset, Training: training()})
	require.NoError(t, engine.Start())
	assert.Equal(t, classifier.HeuristicKey, engine.Classifier().Model())

	engine, _ = newEngine(t, Options{Forest: true, Dataset: dataset, Training: training()})
	assert.Error(t, engine.Start())
}

func TestEngine_Dataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "koi.csv")
	csv := "kepoi_name,koi_disposition,koi_period,koi_duration,koi_depth,koi_model_snr\n"
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			csv += "K1,CONFIRMED,9.4,2.9,15000,35.8\n"
		} else {
			csv += "K2,FALSE POSITIVE,54.4,4.5,874.8,5.2\n"
		}
	}
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	engine, _ := newEngine(t, Options{Forest: true, Dataset: path, Training: training()})
	require.NoError(t, engine.Start())
	report, err := engine.Report()
	require.NoError(t, err)
	assert.Equal(t, path, report.Source)
	assert.Equal(t, 20, report.Split.Total)
}

func TestEngine_Catalogue(t *testing.T) {
	engine, _ := newEngine(t, Options{Training: training(), Workers: 3})

	entries, err := engine.Import(context.Background(), labelledRows(30))
	require.NoError(t, err)
	require.Equal(t, 30, len(entries))
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.True(t, e.Classified())
	}

	stored, err := engine.Entries()
	require.NoError(t, err)
	assert.Equal(t, 30, len(stored))

	report, err := engine.Train()
	require.NoError(t, err)
	assert.Equal(t, catalogue.Source, report.Source)
	assert.Equal(t, 30, report.Split.Total)
	assert.Equal(t, classifier.ForestKey, engine.Classifier().Model())

	require.NoError(t, engine.Clear())
	stored, err = engine.Entries()
	require.NoError(t, err)
	assert.Equal(t, 0, len(stored))

	// too few labelled entries
	report, err = engine.Train()
	require.NoError(t, err)
	assert.Equal(t, trainer.SyntheticSource, report.Source)
}

func TestEngine_Append(t *testing.T) {
	engine, _ := newEngine(t, Options{Training: training(), Workers: 8})

	entries, err := catalogue.Classify(context.Background(), engine, labelledRows(5), 1)
	require.NoError(t, err)
	added, err := engine.Append(entries...)
	require.NoError(t, err)
	require.Equal(t, 5, len(added))

	stored, err := engine.Entries()
	require.NoError(t, err)
	require.Equal(t, 5, len(stored))
	for i, e := range stored {
		assert.Equal(t, added[i].ID, e.ID)
		assert.True(t, e.Classified())
	}
}

func TestEngine_Schedule(t *testing.T) {
	engine, _ := newEngine(t, Options{Training: training()})
	assert.Error(t, engine.Schedule("every now and then"))
	require.NoError(t, engine.Schedule("@every 1h"))
	engine.Stop()
}

func TestEngine_StorageFailure(t *testing.T) {
	failing := func(collection string) (storage.Persistence, error) {
		return storage.NewFailingStorage(errors.New("disk full")), nil
	}
	repository, err := catalogue.NewRepository(failing)
	require.NoError(t, err)
	engine := NewEngine(Options{}, repository, nil)

	_, err = engine.Import(context.Background(), labelledRows(2))
	assert.True(t, errors.Is(err, storage.CouldNotLoadErr))
	_, err = engine.Train()
	assert.Error(t, err)
}
