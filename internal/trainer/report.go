package trainer

import (
	"fmt"

	"github.com/drakos74/free-transit/internal/storage"
)

const reportLabel = "report"

// Reports keeps the report of the latest trained model.
type Reports struct {
	store storage.Persistence
	key   storage.Key
}

// NewReports creates a new report store on the model collection of the given shard.
func NewReports(shard storage.Shard) (*Reports, error) {
	store, err := shard(storage.ModelCollection)
	if err != nil {
		return nil, fmt.Errorf("could not create model storage: %w", err)
	}
	return &Reports{
		store: store,
		key: storage.Key{
			Collection: storage.ModelCollection,
			Label:      reportLabel,
		},
	}, nil
}

// Save stores the report as the latest one.
func (r *Reports) Save(report Report) error {
	if err := r.store.Store(r.key, report); err != nil {
		return fmt.Errorf("could not save report '%s': %w", report.Version, err)
	}
	return nil
}

// Latest loads the latest report, wrapping storage.NotFoundErr if there is none.
func (r *Reports) Latest() (Report, error) {
	var report Report
	if err := r.store.Load(r.key, &report); err != nil {
		return Report{}, fmt.Errorf("could not load report: %w", err)
	}
	return report, nil
}
