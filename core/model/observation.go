package model

import (
	"fmt"
	"time"
)

// State is a discretized congestion level reported by the traffic feed.
type State int

const (
	StateFreeFlow State = iota
	StateModerate
	StateCongested
	StateClosed
)

// NumStates is the size of the congestion state space.
const NumStates = 4

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateFreeFlow:
		return "free-flow"
	case StateModerate:
		return "moderate"
	case StateCongested:
		return "congested"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ClampState maps a raw upstream code into the valid state range. Codes below
// zero clip to StateFreeFlow and codes above three clip to StateClosed. The
// reading is kept; out-of-range codes are never dropped.
func ClampState(code int) State {
	if code < 0 {
		return StateFreeFlow
	}
	if code >= NumStates {
		return StateClosed
	}
	return State(code)
}

// Observation is a single (timestamp, state) reading from the traffic feed.
type Observation struct {
	Timestamp time.Time `json:"timestamp"`
	State     State     `json:"estado"`
}

// SchemaError reports an observation missing a required field.
type SchemaError struct {
	Field string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("observation missing required field %q", e.Field)
}

// NewObservation validates and normalizes a raw reading. The state code is
// clamped into the valid range; a zero timestamp is rejected.
func NewObservation(ts time.Time, code int) (Observation, error) {
	if ts.IsZero() {
		return Observation{}, SchemaError{Field: "timestamp"}
	}
	return Observation{Timestamp: ts.UTC(), State: ClampState(code)}, nil
}

// timestampLayouts lists the accepted feed timestamp formats, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp as delivered by the feed or
// found in a persisted history file.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
