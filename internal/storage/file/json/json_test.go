package json

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/free-transit/internal/storage"
)

type payload struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestPersistence(t *testing.T) {

	type test struct {
		shard storage.Shard
	}

	tests := map[string]test{
		"local": {shard: LocalShard()},
		"blob":  {shard: BlobShard(t.TempDir())},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := tt.shard(storage.CatalogueCollection)
			require.NoError(t, err)

			k := storage.Key{Collection: storage.CatalogueCollection, Label: "records"}

			var p payload
			err = s.Load(k, &p)
			assert.True(t, errors.Is(err, storage.NotFoundErr))

			require.NoError(t, s.Store(k, payload{Name: "kepler-22", Values: []float64{1, 2}}))
			require.NoError(t, s.Load(k, &p))
			assert.Equal(t, "kepler-22", p.Name)
			assert.Equal(t, []float64{1, 2}, p.Values)

			// overwrite
			require.NoError(t, s.Store(k, payload{Name: "kepler-452"}))
			p = payload{}
			require.NoError(t, s.Load(k, &p))
			assert.Equal(t, "kepler-452", p.Name)

			var wrong []int
			err = s.Load(k, &wrong)
			assert.True(t, errors.Is(err, storage.CouldNotLoadErr))

			require.NoError(t, s.Delete(k))
			err = s.Load(k, &p)
			assert.True(t, errors.Is(err, storage.NotFoundErr))
			// deleting twice is fine
			require.NoError(t, s.Delete(k))
		})
	}
}

func TestPersistence_Concurrent(t *testing.T) {
	s := NewJsonBlob(t.TempDir(), storage.ModelCollection, true)
	wg := new(sync.WaitGroup)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := storage.Key{Collection: storage.ModelCollection, Label: fmt.Sprintf("%d", i%4)}
			assert.NoError(t, s.Store(k, payload{Name: fmt.Sprintf("%d", i)}))
			var p payload
			assert.NoError(t, s.Load(k, &p))
		}(i)
	}
	wg.Wait()
}

func TestLocalShard_SameCollection(t *testing.T) {
	shard := LocalShard()
	a, err := shard(storage.CatalogueCollection)
	require.NoError(t, err)
	b, err := shard(storage.CatalogueCollection)
	require.NoError(t, err)

	k := storage.Key{Collection: storage.CatalogueCollection, Label: "records"}
	require.NoError(t, a.Store(k, 42))
	var v int
	require.NoError(t, b.Load(k, &v))
	assert.Equal(t, 42, v)
}
