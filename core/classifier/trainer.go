package classifier

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/JZhaGuo/trafico/core/features"
)

// Train fits a standardized logistic regression on the examples and evaluates
// it on a stratified held-out split. The standardizer is fitted on the
// training partition only and reused, never refitted, for evaluation.
func Train(examples []features.Example, opts Options) (*Model, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(examples) < opts.MinExamples {
		return nil, InsufficientDataError{Required: opts.MinExamples, Actual: len(examples)}
	}

	labels := make([]float64, len(examples))
	for i, ex := range examples {
		labels[i] = float64(ex.Label)
	}
	trainIdx, testIdx, err := stratifiedSplit(labels, opts.TestFraction, opts.Seed)
	if err != nil {
		return nil, err
	}
	if len(testIdx) == 0 || len(trainIdx) == 0 {
		return nil, InsufficientDataError{Required: opts.MinExamples, Actual: len(examples)}
	}

	xTrain, yTrain := designMatrix(examples, trainIdx)
	xTest, yTest := designMatrix(examples, testIdx)

	scale := fitScaler(xTrain)
	scale.transformInPlace(xTrain)
	scale.transformInPlace(xTest)

	weights, bias := fitLogistic(xTrain, yTrain, opts.MaxIter, opts.LearningRate)

	scores := make([]float64, len(yTest))
	correct := 0
	for i := range yTest {
		scores[i] = sigmoid(floats.Dot(weights, xTest.RawRowView(i)) + bias)
		predicted := 0.0
		if scores[i] >= 0.5 {
			predicted = 1.0
		}
		if predicted == yTest[i] {
			correct++
		}
	}

	return &Model{
		scale:    scale,
		weights:  weights,
		bias:     bias,
		Accuracy: float64(correct) / float64(len(yTest)),
		ROCAUC:   rocAUC(scores, yTest),
	}, nil
}

// stratifiedSplit partitions indices into train and test sets, preserving the
// label proportions of the full set. The shuffle is driven by the seed alone.
func stratifiedSplit(labels []float64, testFraction float64, seed int64) (train, test []int, err error) {
	byClass := map[float64][]int{}
	for i, y := range labels {
		byClass[y] = append(byClass[y], i)
	}
	if len(byClass) < 2 {
		return nil, nil, ErrSingleClassLabels
	}

	classes := make([]float64, 0, len(byClass))
	for y := range byClass {
		classes = append(classes, y)
	}
	sort.Float64s(classes)

	rng := rand.New(rand.NewSource(seed))
	for _, y := range classes {
		idx := byClass[y]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		nTest := int(math.Round(testFraction * float64(len(idx))))
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(idx) {
			nTest = len(idx) - 1
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// designMatrix extracts the predictor columns (state, hour, weekday) and
// labels for the selected rows.
func designMatrix(examples []features.Example, idx []int) (*mat.Dense, []float64) {
	x := mat.NewDense(len(idx), numFeatures, nil)
	y := make([]float64, len(idx))
	for row, i := range idx {
		ex := examples[i]
		x.SetRow(row, []float64{float64(ex.State), float64(ex.Hour), float64(ex.Weekday)})
		y[row] = float64(ex.Label)
	}
	return x, y
}

// fitLogistic runs batch gradient descent on the cross-entropy loss.
func fitLogistic(x *mat.Dense, y []float64, maxIter int, learningRate float64) ([]float64, float64) {
	rows, cols := x.Dims()
	weights := make([]float64, cols)
	bias := 0.0
	grad := make([]float64, cols)

	for iter := 0; iter < maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i := 0; i < rows; i++ {
			row := x.RawRowView(i)
			residual := sigmoid(floats.Dot(weights, row)+bias) - y[i]
			floats.AddScaled(grad, residual, row)
			gradBias += residual
		}
		step := learningRate / float64(rows)
		floats.AddScaled(weights, -step, grad)
		bias -= step * gradBias

		if floats.Norm(grad, 2)/float64(rows) < 1e-7 {
			break
		}
	}
	return weights, bias
}

// rocAUC computes the area under the ROC curve of the scores against the
// binary labels via gonum's ROC points and trapezoidal integration.
func rocAUC(scores, labels []float64) float64 {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	sorted := make([]float64, len(scores))
	classes := make([]bool, len(scores))
	for pos, i := range order {
		sorted[pos] = scores[i]
		classes[pos] = labels[i] > 0.5
	}
	tpr, fpr, _ := stat.ROC(nil, sorted, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
