package history

import (
	"sort"

	"github.com/JZhaGuo/trafico/core/model"
)

// History is an append-only, deduplicated log of observations kept in
// timestamp order. The forecasting engine only ever reads snapshots of it and
// never truncates it; retention is the owner's concern.
type History struct {
	obs  []model.Observation
	seen map[obsKey]struct{}
}

type obsKey struct {
	ts    int64
	state model.State
}

// New creates a history holding the given observations.
func New(obs ...model.Observation) *History {
	h := &History{seen: make(map[obsKey]struct{})}
	h.Append(obs...)
	return h
}

// Append inserts observations, keeping the log sorted by timestamp.
// Re-appending an identical (timestamp, state) pair is a no-op, so upstream
// feeds may resend readings freely. It returns the number of observations
// actually added.
func (h *History) Append(obs ...model.Observation) int {
	added := 0
	for _, o := range obs {
		k := obsKey{ts: o.Timestamp.UnixNano(), state: o.State}
		if _, dup := h.seen[k]; dup {
			continue
		}
		h.seen[k] = struct{}{}
		h.obs = append(h.obs, o)
		added++
	}
	if added > 0 {
		sort.SliceStable(h.obs, func(i, j int) bool {
			return h.obs[i].Timestamp.Before(h.obs[j].Timestamp)
		})
	}
	return added
}

// Len returns the number of stored observations.
func (h *History) Len() int { return len(h.obs) }

// Snapshot returns a copy of the observations in timestamp order.
func (h *History) Snapshot() []model.Observation {
	out := make([]model.Observation, len(h.obs))
	copy(out, h.obs)
	return out
}

// States returns the state sequence in timestamp order.
func (h *History) States() []model.State {
	out := make([]model.State, len(h.obs))
	for i, o := range h.obs {
		out[i] = o.State
	}
	return out
}

// Last returns the most recent observation, if any.
func (h *History) Last() (model.Observation, bool) {
	if len(h.obs) == 0 {
		return model.Observation{}, false
	}
	return h.obs[len(h.obs)-1], true
}
