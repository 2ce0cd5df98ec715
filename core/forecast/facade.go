// Package forecast is the engine's façade: one entry point per forecasting
// method, each pure over a history snapshot. Callers own refresh and caching;
// the façade holds no state between calls.
package forecast

import (
	"github.com/JZhaGuo/trafico/core/classifier"
	"github.com/JZhaGuo/trafico/core/features"
	"github.com/JZhaGuo/trafico/core/history"
	"github.com/JZhaGuo/trafico/core/markov"
	"github.com/JZhaGuo/trafico/core/model"
)

// Result carries a forecast probability or an explicit unavailability reason.
// Available distinguishes a computed 0% from "could not compute"; a Result is
// never a silent default.
type Result struct {
	Probability float64 `json:"probability"`
	Available   bool    `json:"available"`
	Reason      string  `json:"reason,omitempty"`
}

// LogisticResult adds the held-out metrics of the model behind the probability.
type LogisticResult struct {
	Result
	Accuracy float64 `json:"accuracy"`
	ROCAUC   float64 `json:"roc_auc"`
}

func unavailable(err error) Result {
	return Result{Available: false, Reason: err.Error()}
}

// Markov forecasts the probability of finding the location in one of the
// congested states after horizon observation steps, starting from a one-hot
// distribution on the most recent state. The typed error is returned alongside
// the unavailable result so callers can log the cause.
func Markov(hist *history.History, horizon int, congested []model.State) (Result, error) {
	last, ok := hist.Last()
	if !ok {
		return unavailable(markov.ErrShortHistory), markov.ErrShortHistory
	}
	return MarkovFrom(hist, markov.OneHot(last.State), horizon, congested)
}

// MarkovFrom forecasts from a caller-supplied initial distribution, such as an
// empirical mixture across simultaneous sensors.
func MarkovFrom(hist *history.History, initial []float64, horizon int, congested []model.State) (Result, error) {
	p, err := markov.Estimate(hist.States())
	if err != nil {
		return unavailable(err), err
	}
	dist, err := markov.Forecast(initial, p, horizon)
	if err != nil {
		return unavailable(err), err
	}
	return Result{Probability: markov.CongestionProbability(dist, congested), Available: true}, nil
}

// Logistic trains a fresh classifier on the snapshot and predicts congestion
// at horizon rows ahead for the most recent observation. States at or above
// threshold count as congested for the label.
func Logistic(hist *history.History, horizon int, threshold model.State, opts classifier.Options) (LogisticResult, error) {
	obs := hist.Snapshot()
	examples, err := features.Build(obs, horizon, threshold)
	if err != nil {
		return LogisticResult{Result: unavailable(err)}, err
	}
	m, err := classifier.Train(examples, opts)
	if err != nil {
		return LogisticResult{Result: unavailable(err)}, err
	}
	last := obs[len(obs)-1]
	prob := m.Predict(last.State, last.Timestamp.Hour(), int(last.Timestamp.Weekday()))
	return LogisticResult{
		Result:   Result{Probability: prob, Available: true},
		Accuracy: m.Accuracy,
		ROCAUC:   m.ROCAUC,
	}, nil
}
