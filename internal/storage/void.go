package storage

import "fmt"

// VoidStorage is a noop storage
type VoidStorage struct {
}

func (d VoidStorage) Store(k Key, value interface{}) error {
	return nil
}

func (d VoidStorage) Load(k Key, value interface{}) error {
	return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
}

func (d VoidStorage) Delete(k Key) error {
	return nil
}

// NewVoidStorage creates a new noop storage
func NewVoidStorage() *VoidStorage {
	return &VoidStorage{}
}

// VoidShard creates a new noop shard
func VoidShard() Shard {
	return func(collection string) (Persistence, error) {
		return NewVoidStorage(), nil
	}
}
