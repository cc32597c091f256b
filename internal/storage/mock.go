package storage

import "fmt"

// FailingStorage is a storage that returns the given error on every call.
type FailingStorage struct {
	Err error
}

// NewFailingStorage creates a new storage that always fails with err.
func NewFailingStorage(err error) *FailingStorage {
	return &FailingStorage{Err: err}
}

func (f FailingStorage) Store(k Key, value interface{}) error {
	return fmt.Errorf("could not store '%v': %v: %w", k, f.Err, CouldNotStoreErr)
}

func (f FailingStorage) Load(k Key, value interface{}) error {
	return fmt.Errorf("could not load '%v': %v: %w", k, f.Err, CouldNotLoadErr)
}

func (f FailingStorage) Delete(k Key) error {
	return fmt.Errorf("could not delete '%v': %v: %w", k, f.Err, CouldNotStoreErr)
}
