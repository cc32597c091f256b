package catalogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/drakos74/free-transit/internal/classifier"
	"github.com/drakos74/free-transit/internal/concurrent"
	"github.com/drakos74/free-transit/internal/model"
)

// DefaultWorkers is the default number of signals classified in parallel.
const DefaultWorkers = 8

// Classifier produces a verdict for a raw transit signal.
type Classifier interface {
	Classify(raw model.FeatureRecord) (model.Verdict, error)
}

// Classify classifies the rows with at most workers of them in parallel.
// Entries follow the order of the rows. Rows that cannot be classified keep the reason in their entry,
// only a cancelled context fails the whole batch.
func Classify(ctx context.Context, c Classifier, rows []Row, workers int) ([]Entry, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	entries := make([]Entry, len(rows))
	counter := concurrent.NewCounter()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry := Entry{
				ID:          row.ID,
				Name:        row.Name,
				Disposition: row.Disposition,
				Features:    row.Features,
			}
			verdict, err := c.Classify(row.Features)
			counter.Track(reason(err), err)
			if err != nil {
				entry.Error = fmt.Sprintf("line %d: %s", row.Line, err.Error())
			} else {
				entry.Verdict = &verdict
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("could not classify batch: %w", err)
	}

	log.Info().
		Int("rows", len(rows)).
		Int("classified", counter.Get()).
		Int("failed", counter.Failed()).
		Interface("reasons", counter.Reasons()).
		Msg("classified batch")
	return entries, nil
}

func reason(err error) string {
	var verr *classifier.ValidationError
	var cerr *classifier.ComputationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &cerr):
		return "computation"
	}
	return "unknown"
}
