package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/JZhaGuo/trafico/core/model"
)

// numFeatures is the width of the predictor vector: state, hour, weekday.
const numFeatures = 3

// Model is an immutable fitted pipeline: a standardization transform, the
// logistic weights, and the metrics measured on the held-out partition.
// Retraining replaces the model wholesale; there is no online update.
type Model struct {
	scale   scaler
	weights []float64
	bias    float64

	// Accuracy and ROCAUC were computed on the held-out test split.
	Accuracy float64
	ROCAUC   float64
}

// Predict returns the probability in [0,1] that the location is congested at
// the trained horizon, given the current state and time of day.
func (m *Model) Predict(state model.State, hour, weekday int) float64 {
	x := m.scale.transform([]float64{float64(state), float64(hour), float64(weekday)})
	return sigmoid(floats.Dot(m.weights, x) + m.bias)
}

// scaler is a per-column standardization transform (zero mean, unit variance).
type scaler struct {
	mean []float64
	std  []float64
}

// fitScaler estimates column means and standard deviations. Constant columns
// keep a unit scale so they pass through unchanged.
func fitScaler(x *mat.Dense) scaler {
	rows, cols := x.Dims()
	s := scaler{mean: make([]float64, cols), std: make([]float64, cols)}
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.mean[j], s.std[j] = mean, std
	}
	return s
}

func (s scaler) transform(v []float64) []float64 {
	out := make([]float64, len(v))
	for j := range v {
		out[j] = (v[j] - s.mean[j]) / s.std[j]
	}
	return out
}

func (s scaler) transformInPlace(x *mat.Dense) {
	rows, cols := x.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x.Set(i, j, (x.At(i, j)-s.mean[j])/s.std[j])
		}
	}
}
