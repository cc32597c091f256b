package catalogue

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-transit/internal/storage"
)

const recordsLabel = "records"

// Repository stores the catalogue entries under one key of the given storage.
type Repository struct {
	store storage.Persistence
	key   storage.Key
	mutex *sync.Mutex
}

// NewRepository creates a new repository on the catalogue collection of the given shard.
func NewRepository(shard storage.Shard) (*Repository, error) {
	store, err := shard(storage.CatalogueCollection)
	if err != nil {
		return nil, fmt.Errorf("could not create catalogue storage: %w", err)
	}
	return &Repository{
		store: store,
		key: storage.Key{
			Collection: storage.CatalogueCollection,
			Label:      recordsLabel,
		},
		mutex: new(sync.Mutex),
	}, nil
}

// Load returns all stored entries. An empty catalogue is not an error.
func (r *Repository) Load() ([]Entry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.load()
}

func (r *Repository) load() ([]Entry, error) {
	entries := make([]Entry, 0)
	err := r.store.Load(r.key, &entries)
	if errors.Is(err, storage.NotFoundErr) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not load catalogue: %w", err)
	}
	return entries, nil
}

// Save replaces the stored entries.
func (r *Repository) Save(entries []Entry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.save(entries)
}

func (r *Repository) save(entries []Entry) error {
	if err := r.store.Store(r.key, entries); err != nil {
		return fmt.Errorf("could not save catalogue: %w", err)
	}
	return nil
}

// Append adds the entries to the stored ones, assigning ids where missing.
// It returns the entries as they were stored.
func (r *Repository) Append(entries ...Entry) ([]Entry, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, err := r.load()
	if err != nil {
		return nil, err
	}
	added := make([]Entry, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		added[i] = e
	}
	if err := r.save(append(stored, added...)); err != nil {
		return nil, err
	}
	log.Info().
		Int("added", len(added)).
		Int("total", len(stored)+len(added)).
		Msg("appended to catalogue")
	return added, nil
}

// Clear removes all entries.
func (r *Repository) Clear() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.store.Delete(r.key); err != nil {
		return fmt.Errorf("could not clear catalogue: %w", err)
	}
	log.Info().Msg("cleared catalogue")
	return nil
}
