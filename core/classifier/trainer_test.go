package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JZhaGuo/trafico/core/features"
	"github.com/JZhaGuo/trafico/core/model"
)

// separableExamples builds n examples where congestion follows the morning
// rush deterministically, so a sane fit separates the classes.
func separableExamples(n int) []features.Example {
	out := make([]features.Example, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = features.Example{Hour: 8, Weekday: 1 + i%5, State: model.StateCongested, Label: 1}
		} else {
			out[i] = features.Example{Hour: 3, Weekday: 1 + i%5, State: model.StateFreeFlow, Label: 0}
		}
	}
	return out
}

func TestTrainInsufficientData(t *testing.T) {
	_, err := Train(separableExamples(99), Options{})
	var ide InsufficientDataError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, 100, ide.Required)
	assert.Equal(t, 99, ide.Actual)
}

func TestTrainAtMinimum(t *testing.T) {
	m, err := Train(separableExamples(100), Options{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.Accuracy, 0.0)
	assert.LessOrEqual(t, m.Accuracy, 1.0)
	assert.GreaterOrEqual(t, m.ROCAUC, 0.0)
	assert.LessOrEqual(t, m.ROCAUC, 1.0)
}

func TestTrainSeparatesClasses(t *testing.T) {
	m, err := Train(separableExamples(200), Options{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.Accuracy, 0.9, "separable data should be learned")
	assert.GreaterOrEqual(t, m.ROCAUC, 0.9)

	pCongested := m.Predict(model.StateCongested, 8, 2)
	pFree := m.Predict(model.StateFreeFlow, 3, 2)
	assert.Greater(t, pCongested, pFree)
	assert.GreaterOrEqual(t, pFree, 0.0)
	assert.LessOrEqual(t, pCongested, 1.0)
}

func TestTrainSingleClass(t *testing.T) {
	exs := separableExamples(100)
	for i := range exs {
		exs[i].Label = 1
	}
	_, err := Train(exs, Options{})
	assert.ErrorIs(t, err, ErrSingleClassLabels)
}

func TestTrainIsReproducible(t *testing.T) {
	exs := separableExamples(150)
	m1, err := Train(exs, Options{})
	require.NoError(t, err)
	m2, err := Train(exs, Options{})
	require.NoError(t, err)

	assert.Equal(t, m1.Accuracy, m2.Accuracy)
	assert.Equal(t, m1.ROCAUC, m2.ROCAUC)
	assert.Equal(t, m1.Predict(model.StateModerate, 12, 3), m2.Predict(model.StateModerate, 12, 3))

	m3, err := Train(exs, Options{Seed: 7})
	require.NoError(t, err)
	_ = m3 // a different seed is valid; only identical seeds promise identical splits
}

func TestTrainRejectsBadOptions(t *testing.T) {
	exs := separableExamples(100)
	_, err := Train(exs, Options{TestFraction: 1.5})
	assert.Error(t, err)
	_, err = Train(exs, Options{LearningRate: -1})
	assert.Error(t, err)
}

func TestStratifiedSplitPreservesProportions(t *testing.T) {
	labels := make([]float64, 200)
	for i := 150; i < 200; i++ {
		labels[i] = 1 // 25% positive
	}
	train, test, err := stratifiedSplit(labels, 0.25, 42)
	require.NoError(t, err)
	// Per class: round(0.25*150)=38 and round(0.25*50)=13 test rows.
	assert.Len(t, train, 149)
	assert.Len(t, test, 51)

	positives := func(idx []int) int {
		n := 0
		for _, i := range idx {
			if labels[i] == 1 {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 37, positives(train))
	assert.Equal(t, 13, positives(test))

	// No index may land in both partitions.
	inTest := map[int]bool{}
	for _, i := range test {
		inTest[i] = true
	}
	for _, i := range train {
		assert.False(t, inTest[i], "index %d in both partitions", i)
	}
}

func TestRocAUCOrdering(t *testing.T) {
	// A perfect ranking scores AUC 1, an inverted one scores 0.
	labels := []float64{0, 0, 1, 1}
	assert.InDelta(t, 1.0, rocAUC([]float64{0.1, 0.2, 0.8, 0.9}, labels), 1e-12)
	assert.InDelta(t, 0.0, rocAUC([]float64{0.9, 0.8, 0.2, 0.1}, labels), 1e-12)
	assert.InDelta(t, 0.5, rocAUC([]float64{0.9, 0.1, 0.8, 0.2}, labels), 1e-12)
}
