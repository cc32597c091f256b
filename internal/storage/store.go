package storage

import (
	"errors"
	"fmt"
)

const (
	// CatalogueCollection holds the classified records.
	CatalogueCollection = "catalogue"
	// ModelCollection holds the model evaluation reports.
	ModelCollection = "model"
)

var (
	// DefaultDir is the root directory for the file based storage.
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given collection.
type Shard func(collection string) (Persistence, error)

var (
	NotFoundErr      = errors.New("not found")
	CouldNotLoadErr  = errors.New("could not load")
	CouldNotStoreErr = errors.New("could not store")
)

// Key is the storage key for a general implementation
type Key struct {
	Collection string `json:"collection"`
	Label      string `json:"label"`
}

// Path returns the flat representation of the key, e.g. for file names.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%s", k.Collection, k.Label)
}

// Persistence stores and loads values under explicit keys.
// Implementations must be safe for concurrent use.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
	Delete(k Key) error
}
