package json

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/drakos74/free-transit/internal/storage"
)

// LocalShard creates in-memory storages, one per collection.
// Storages are kept, so that the same collection always returns the same storage.
func LocalShard() storage.Shard {
	shards := make(map[string]*LocalStorage)
	mutex := new(sync.Mutex)
	return func(collection string) (storage.Persistence, error) {
		mutex.Lock()
		defer mutex.Unlock()
		if s, ok := shards[collection]; ok {
			return s, nil
		}
		s := NewLocalStorage()
		shards[collection] = s
		return s, nil
	}
}

// LocalStorage keeps the json encoded values in memory.
type LocalStorage struct {
	files map[storage.Key]string
	mutex *sync.RWMutex
}

// NewLocalStorage creates a new in-memory storage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		files: make(map[storage.Key]string),
		mutex: new(sync.RWMutex),
	}
}

func (l LocalStorage) Store(k storage.Key, value interface{}) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	bb, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value: %v: %w", err, storage.CouldNotStoreErr)
	}

	l.files[k] = string(bb)
	return nil
}

func (l LocalStorage) Load(k storage.Key, value interface{}) error {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if v, ok := l.files[k]; ok {
		err := json.Unmarshal([]byte(v), value)
		if err != nil {
			return fmt.Errorf("could not unmarshal value: %v: %w", err, storage.CouldNotLoadErr)
		}
		return nil
	}
	return fmt.Errorf("file not found: %+v: %w", k, storage.NotFoundErr)
}

func (l LocalStorage) Delete(k storage.Key) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	delete(l.files, k)
	return nil
}
