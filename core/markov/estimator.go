package markov

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/JZhaGuo/trafico/core/model"
)

// ErrShortHistory is returned when fewer than two observations are available,
// leaving no transitions to count.
var ErrShortHistory = errors.New("markov: need at least two observations to estimate transitions")

// rowSumTolerance bounds the acceptable floating-point drift of a stochastic row.
const rowSumTolerance = 1e-9

// Estimate builds the empirical transition matrix from a state sequence in
// timestamp order. Entry (i, j) is the relative frequency of moving from state
// i to state j in one observation step.
//
// A state never observed as a departure keeps its probability mass through a
// self-loop (row i gets P[i][i] = 1). Leaving such a row all-zero would leak
// mass under repeated matrix powers.
func Estimate(seq []model.State) (*mat.Dense, error) {
	if len(seq) < 2 {
		return nil, ErrShortHistory
	}
	n := model.NumStates
	counts := mat.NewDense(n, n, nil)
	for i := 0; i+1 < len(seq); i++ {
		from, to := int(seq[i]), int(seq[i+1])
		counts.Set(from, to, counts.At(from, to)+1)
	}

	p := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		total := floats.Sum(counts.RawRowView(i))
		if total == 0 {
			p.Set(i, i, 1)
			continue
		}
		for j := 0; j < n; j++ {
			p.Set(i, j, counts.At(i, j)/total)
		}
	}
	assertRowStochastic(p)
	return p, nil
}

// assertRowStochastic guards the estimator's output invariant. The self-loop
// policy makes a degenerate row unreachable, so a violation is a programming
// error, not a recoverable condition.
func assertRowStochastic(p *mat.Dense) {
	r, _ := p.Dims()
	for i := 0; i < r; i++ {
		if s := floats.Sum(p.RawRowView(i)); math.Abs(s-1) > rowSumTolerance {
			panic(fmt.Sprintf("markov: degenerate transition matrix, row %d sums to %v", i, s))
		}
	}
}
