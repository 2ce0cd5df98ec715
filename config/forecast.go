package config

import (
	"fmt"

	"github.com/JZhaGuo/trafico/core/classifier"
	"github.com/JZhaGuo/trafico/core/model"
)

// ForecastConfig tunes the forecasting engine. Horizons count observation
// rows; the feed must arrive at a roughly uniform cadence for a row horizon
// to approximate a time horizon.
type ForecastConfig struct {
	// HorizonSteps is the number of observation steps to look ahead.
	HorizonSteps int `json:"horizon_steps"`
	// CongestedStates lists the state codes that count as congested in the
	// Markov forecast. The upstream variants disagree (2 alone vs 2 and 3),
	// so this is configuration, not a constant.
	CongestedStates []int `json:"congested_states"`
	// CongestionThreshold is the smallest state code labelled congested when
	// building classifier training data.
	CongestionThreshold int `json:"congestion_threshold"`
	// IntervalSeconds is the period of the service's forecast loop.
	IntervalSeconds int `json:"interval_seconds"`
	// Classifier holds the training options.
	Classifier classifier.Options `json:"classifier"`
}

// SetDefaults applies the defaults of the upstream system: 15 steps ahead at
// a one-minute cadence, state 2 congested, a refresh every three minutes.
func (c *ForecastConfig) SetDefaults() {
	if c.HorizonSteps == 0 {
		c.HorizonSteps = 15
	}
	if len(c.CongestedStates) == 0 {
		c.CongestedStates = []int{int(model.StateCongested)}
	}
	if c.CongestionThreshold == 0 {
		c.CongestionThreshold = int(model.StateCongested)
	}
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 180
	}
	c.Classifier.SetDefaults()
}

// Validate checks value ranges.
func (c ForecastConfig) Validate() error {
	if c.HorizonSteps < 1 {
		return fmt.Errorf("horizon_steps must be positive, got %d", c.HorizonSteps)
	}
	for _, s := range c.CongestedStates {
		if s < 0 || s >= model.NumStates {
			return fmt.Errorf("congested state %d out of range [0,%d)", s, model.NumStates)
		}
	}
	if c.CongestionThreshold < 0 || c.CongestionThreshold >= model.NumStates {
		return fmt.Errorf("congestion_threshold %d out of range [0,%d)", c.CongestionThreshold, model.NumStates)
	}
	if c.IntervalSeconds < 1 {
		return fmt.Errorf("interval_seconds must be positive, got %d", c.IntervalSeconds)
	}
	return c.Classifier.Validate()
}

// Congested returns the congested state set as model states.
func (c ForecastConfig) Congested() []model.State {
	out := make([]model.State, len(c.CongestedStates))
	for i, s := range c.CongestedStates {
		out[i] = model.State(s)
	}
	return out
}

// Threshold returns the label threshold as a model state.
func (c ForecastConfig) Threshold() model.State {
	return model.State(c.CongestionThreshold)
}
