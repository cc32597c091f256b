package ml

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of one feature.
type Summary struct {
	Name   string  `json:"name"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe computes the summary of each feature of the dataset.
func Describe(ds Dataset) []Summary {
	if ds.Len() == 0 {
		return []Summary{}
	}
	ss := make([]Summary, len(ds.X[0]))
	for i := range ss {
		col := ds.Column(i)
		mean, std := stat.MeanStdDev(col, nil)
		name := ""
		if i < len(ds.Names) {
			name = ds.Names[i]
		}
		ss[i] = Summary{
			Name:   name,
			Mean:   mean,
			StdDev: std,
			Min:    floats.Min(col),
			Max:    floats.Max(col),
		}
	}
	return ss
}

// VarianceImportance weights the features by their coefficient of variation, normalised to sum to 1.
// It is a rough proxy for when the model does not expose its own importance.
func VarianceImportance(ds Dataset) []float64 {
	if ds.Len() < 2 {
		return []float64{}
	}
	n := len(ds.X[0])
	importance := make([]float64, n)
	for i := 0; i < n; i++ {
		col := ds.Column(i)
		mean, std := stat.MeanStdDev(col, nil)
		if mean != 0 {
			importance[i] = std / abs(mean)
		}
	}
	return Normalise(importance)
}

// Normalise scales the values so that they sum to 1.
// A zero sum vector is returned as is.
func Normalise(vv []float64) []float64 {
	out := make([]float64, len(vv))
	copy(out, vv)
	sum := floats.Sum(out)
	if sum == 0 {
		return out
	}
	floats.Scale(1/sum, out)
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
