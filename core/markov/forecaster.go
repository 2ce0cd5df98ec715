package markov

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/JZhaGuo/trafico/core/model"
)

// InvalidDistributionError reports an initial distribution that is not a
// probability vector over the state space.
type InvalidDistributionError struct {
	Len int
	Sum float64
}

func (e InvalidDistributionError) Error() string {
	return fmt.Sprintf("markov: invalid initial distribution (len=%d, sum=%g)", e.Len, e.Sum)
}

// OneHot returns the distribution fully concentrated on s.
func OneHot(s model.State) []float64 {
	v := make([]float64, model.NumStates)
	v[int(s)] = 1
	return v
}

// Forecast projects the initial distribution horizon steps forward through
// the transition matrix, returning the state distribution at the horizon.
// The matrix power is computed by exponentiation by squaring, so the cost
// grows with log(horizon) independently of the state count.
func Forecast(initial []float64, p *mat.Dense, horizon int) ([]float64, error) {
	if err := validateDistribution(initial); err != nil {
		return nil, err
	}
	if horizon < 1 {
		return nil, fmt.Errorf("markov: horizon must be positive, got %d", horizon)
	}
	pn := matPow(p, horizon)

	// Row vector times matrix: vᵀ·Pⁿ = (Pⁿᵀ·v)ᵀ.
	v := mat.NewVecDense(len(initial), append([]float64(nil), initial...))
	var out mat.VecDense
	out.MulVec(pn.T(), v)
	dist := make([]float64, out.Len())
	copy(dist, out.RawVector().Data)
	return dist, nil
}

// CongestionProbability sums the forecast mass over the caller's congested
// state set. Which states count as congested (2 alone, or 2 and 3) is a
// deliberate parameter, not a constant.
func CongestionProbability(dist []float64, congested []model.State) float64 {
	var p float64
	for _, s := range congested {
		if int(s) >= 0 && int(s) < len(dist) {
			p += dist[int(s)]
		}
	}
	return p
}

func validateDistribution(initial []float64) error {
	if len(initial) != model.NumStates {
		return InvalidDistributionError{Len: len(initial), Sum: floats.Sum(initial)}
	}
	sum := 0.0
	for _, v := range initial {
		if v < 0 {
			return InvalidDistributionError{Len: len(initial), Sum: floats.Sum(initial)}
		}
		sum += v
	}
	if math.Abs(sum-1) > rowSumTolerance {
		return InvalidDistributionError{Len: len(initial), Sum: sum}
	}
	return nil
}

// matPow raises p to the k-th power by repeated squaring.
func matPow(p *mat.Dense, k int) *mat.Dense {
	n, _ := p.Dims()
	result := identity(n)
	base := mat.DenseCopyOf(p)
	for k > 0 {
		if k&1 == 1 {
			var next mat.Dense
			next.Mul(result, base)
			result = &next
		}
		k >>= 1
		if k > 0 {
			var sq mat.Dense
			sq.Mul(base, base)
			base = &sq
		}
	}
	return result
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
