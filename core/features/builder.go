package features

import (
	"fmt"

	"github.com/JZhaGuo/trafico/core/model"
)

// Example is one supervised training row: the predictors observed at a point
// in time and the binary congestion outcome `horizon` rows later.
//
// Weekday follows Go's time.Weekday numbering (Sunday=0), not the Monday=0
// convention some tabular tooling uses. Training and prediction share the
// encoding, so only exported examples need the distinction.
type Example struct {
	Hour    int
	Weekday int
	State   model.State
	Label   int
}

// DefaultCongestionThreshold marks states at or above congested as the
// positive class, matching the feed's 0..3 severity ordering.
const DefaultCongestionThreshold = model.StateCongested

// Build derives one example per observation that has a labelled future row.
//
// The horizon counts rows, not wall-clock time: callers must feed a history
// sampled at a roughly uniform cadence (resample beforehand if it is not).
// The trailing `horizon` rows have no future label and are discarded. Output
// preserves chronological order so a seeded split is reproducible.
func Build(obs []model.Observation, horizon int, threshold model.State) ([]Example, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("features: horizon must be positive, got %d", horizon)
	}
	if len(obs) <= horizon {
		return nil, nil
	}
	out := make([]Example, 0, len(obs)-horizon)
	for i := 0; i+horizon < len(obs); i++ {
		label := 0
		if obs[i+horizon].State >= threshold {
			label = 1
		}
		out = append(out, Example{
			Hour:    obs[i].Timestamp.Hour(),
			Weekday: int(obs[i].Timestamp.Weekday()),
			State:   obs[i].State,
			Label:   label,
		})
	}
	return out, nil
}
