package classifier

import (
	"errors"
	"fmt"
)

// Options control training. The zero value is usable after SetDefaults.
type Options struct {
	// MinExamples is the smallest training set Train accepts.
	MinExamples int `json:"min_examples"`
	// TestFraction is the share of examples held out for evaluation.
	TestFraction float64 `json:"test_fraction"`
	// Seed fixes the stratified split so runs are reproducible.
	Seed int64 `json:"seed"`
	// MaxIter caps the gradient-descent iterations.
	MaxIter int `json:"max_iter"`
	// LearningRate is the gradient-descent step size.
	LearningRate float64 `json:"learning_rate"`
}

// SetDefaults applies the documented defaults: 100 examples minimum, a 75/25
// stratified split seeded with 42, and a 1000-iteration fit.
func (o *Options) SetDefaults() {
	if o.MinExamples == 0 {
		o.MinExamples = 100
	}
	if o.TestFraction == 0 {
		o.TestFraction = 0.25
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.MaxIter == 0 {
		o.MaxIter = 1000
	}
	if o.LearningRate == 0 {
		o.LearningRate = 0.1
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.MinExamples < 2 {
		return fmt.Errorf("classifier: min_examples must be at least 2, got %d", o.MinExamples)
	}
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		return fmt.Errorf("classifier: test_fraction must be in (0,1), got %g", o.TestFraction)
	}
	if o.MaxIter < 1 {
		return fmt.Errorf("classifier: max_iter must be positive, got %d", o.MaxIter)
	}
	if o.LearningRate <= 0 {
		return fmt.Errorf("classifier: learning_rate must be positive, got %g", o.LearningRate)
	}
	return nil
}

// InsufficientDataError reports a history below the minimum training size.
type InsufficientDataError struct {
	Required int
	Actual   int
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("classifier: %d examples available, %d required", e.Actual, e.Required)
}

// ErrSingleClassLabels is returned when every label belongs to one class;
// neither a stratified split nor ROC-AUC is defined in that case.
var ErrSingleClassLabels = errors.New("classifier: training labels contain a single class")
