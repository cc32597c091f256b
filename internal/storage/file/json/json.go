package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/free-transit/internal/storage"
)

// BlobStorage stores every key as a json file under <path>/<collection>.
type BlobStorage struct {
	path       string
	collection string
	debug      bool
	mutex      *sync.RWMutex
}

// BlobShard creates json file storages under the given root directory.
func BlobShard(path string) storage.Shard {
	return func(collection string) (storage.Persistence, error) {
		return NewJsonBlob(path, collection, false), nil
	}
}

func (s BlobStorage) Store(k storage.Key, value interface{}) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	p := filepath.Join(s.path, s.collection)
	err := Save(p, k.Path(), value)
	if err == nil && s.debug {
		log.Debug().Str("path", p).Str("file", k.Path()).Msg("stored json file")
	}
	return err
}

func (s BlobStorage) Load(k storage.Key, value interface{}) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return Load(filepath.Join(s.path, s.collection), k.Path(), value)
}

func (s BlobStorage) Delete(k storage.Key) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return Delete(filepath.Join(s.path, s.collection), k.Path())
}

// NewJsonBlob creates a new json file storage.
// collection has the same schema
func NewJsonBlob(path, collection string, debug bool) *BlobStorage {
	if path == "" {
		path = storage.DefaultDir
	}
	return &BlobStorage{
		path:       path,
		collection: collection,
		debug:      debug,
		mutex:      new(sync.RWMutex),
	}
}

// Save saves the given json struct into the given path with the provided filename.
func Save(filePath string, fileName string, value interface{}) error {
	// check if filepath exists
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not save key '%+v': %v: %w", fileName, err, storage.CouldNotStoreErr)
	}

	// write into a temporary file and swap, so that readers never see half a file
	p := fmt.Sprintf("%s.json", filepath.Join(filePath, fileName))
	tmp := fmt.Sprintf("%s.tmp", p)
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return fmt.Errorf("could not write file '%s': %v: %w", tmp, err, storage.CouldNotStoreErr)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("could not move file '%s': %v: %w", p, err, storage.CouldNotStoreErr)
	}
	return nil
}

// Load loads the payload from the given filePath and fileName.
func Load(filePath string, fileName string, value interface{}) error {
	p := fmt.Sprintf("%s.json", filepath.Join(filePath, fileName))
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not find file '%s': %w", p, storage.NotFoundErr)
		}
		return fmt.Errorf("could not read file '%s': %v: %w", p, err, storage.CouldNotLoadErr)
	}

	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not unmarshal key for '%s': '%v': %w", fileName, err, storage.CouldNotLoadErr)
	}

	return nil
}

// Delete removes the file for the given filePath and fileName, if it exists.
func Delete(filePath string, fileName string) error {
	p := fmt.Sprintf("%s.json", filepath.Join(filePath, fileName))
	err := os.Remove(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete file '%s': %v: %w", p, err, storage.CouldNotStoreErr)
	}
	return nil
}
