package ml

import (
	"fmt"
	"math/rand"
	"sort"
)

// Dataset is a labelled set of feature vectors.
type Dataset struct {
	Names []string
	X     [][]float64
	Y     []int
}

// NewDataset creates an empty dataset for the given feature names.
func NewDataset(names ...string) Dataset {
	return Dataset{
		Names: names,
		X:     make([][]float64, 0),
		Y:     make([]int, 0),
	}
}

// Add appends a sample to the dataset.
func (ds *Dataset) Add(x []float64, y int) {
	ds.X = append(ds.X, x)
	ds.Y = append(ds.Y, y)
}

// Len returns the number of samples.
func (ds Dataset) Len() int {
	return len(ds.X)
}

// Check verifies the dataset is not empty and all vectors have the same size.
func (ds Dataset) Check() error {
	if len(ds.X) == 0 {
		return fmt.Errorf("empty dataset")
	}
	if len(ds.X) != len(ds.Y) {
		return fmt.Errorf("inconsistent dataset: %d samples for %d labels", len(ds.X), len(ds.Y))
	}
	n := len(ds.X[0])
	if n == 0 {
		return fmt.Errorf("no features in dataset")
	}
	for i, x := range ds.X {
		if len(x) != n {
			return fmt.Errorf("inconsistent sample at %d: %d features instead of %d", i, len(x), n)
		}
		if ds.Y[i] < 0 {
			return fmt.Errorf("invalid class %d at %d", ds.Y[i], i)
		}
	}
	return nil
}

// Classes returns the distinct classes in ascending order.
func (ds Dataset) Classes() []int {
	seen := make(map[int]bool)
	cc := make([]int, 0)
	for _, y := range ds.Y {
		if !seen[y] {
			seen[y] = true
			cc = append(cc, y)
		}
	}
	sort.Ints(cc)
	return cc
}

// Column returns the values of the feature at index i.
func (ds Dataset) Column(i int) []float64 {
	col := make([]float64, len(ds.X))
	for j, x := range ds.X {
		col[j] = x[i]
	}
	return col
}

// Split shuffles the samples with the given seed and splits them at the given ratio.
func (ds Dataset) Split(ratio float64, seed int64) (Dataset, Dataset) {
	idx := rand.New(rand.NewSource(seed)).Perm(ds.Len())
	cut := int(ratio * float64(ds.Len()))

	train := NewDataset(ds.Names...)
	test := NewDataset(ds.Names...)
	for i, j := range idx {
		if i < cut {
			train.Add(ds.X[j], ds.Y[j])
		} else {
			test.Add(ds.X[j], ds.Y[j])
		}
	}
	return train, test
}
