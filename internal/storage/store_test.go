package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Path(t *testing.T) {
	assert.Equal(t, "catalogue_records", Key{Collection: CatalogueCollection, Label: "records"}.Path())
}

func TestVoidStorage(t *testing.T) {
	s, err := VoidShard()(CatalogueCollection)
	assert.NoError(t, err)
	k := Key{Collection: CatalogueCollection, Label: "records"}
	assert.NoError(t, s.Store(k, 1))
	var v int
	assert.True(t, errors.Is(s.Load(k, &v), NotFoundErr))
	assert.NoError(t, s.Delete(k))
}

func TestFailingStorage(t *testing.T) {
	s := NewFailingStorage(fmt.Errorf("disk full"))
	k := Key{Collection: CatalogueCollection, Label: "records"}
	assert.True(t, errors.Is(s.Store(k, 1), CouldNotStoreErr))
	var v int
	err := s.Load(k, &v)
	assert.True(t, errors.Is(err, CouldNotLoadErr))
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, errors.Is(s.Delete(k), CouldNotStoreErr))
}
