// Package simulator produces a synthetic observation feed with a weekday
// rush-hour profile. It stands in for the real upstream provider in demos and
// seeds qualifying histories in tests.
package simulator

import (
	"math/rand"
	"time"

	"github.com/JZhaGuo/trafico/core/model"
)

// Generator emits observations at a fixed cadence. The state random-walks one
// severity level at a time: pressure toward congestion during weekday rush
// hours, decay toward free flow otherwise.
type Generator struct {
	rng      *rand.Rand
	state    model.State
	next     time.Time
	interval time.Duration
}

// New creates a seeded generator starting at the given instant.
func New(seed int64, start time.Time, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		state:    model.StateFreeFlow,
		next:     start.UTC(),
		interval: interval,
	}
}

// Next returns the next observation.
func (g *Generator) Next() model.Observation {
	obs := model.Observation{Timestamp: g.next, State: g.state}
	g.state = g.step(g.next)
	g.next = g.next.Add(g.interval)
	return obs
}

// Series returns the next n observations.
func (g *Generator) Series(n int) []model.Observation {
	out := make([]model.Observation, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func isRushHour(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	h := t.Hour()
	return (h >= 7 && h < 10) || (h >= 17 && h < 20)
}

func (g *Generator) step(t time.Time) model.State {
	up, down := 0.10, 0.45
	if isRushHour(t) {
		up, down = 0.55, 0.10
	}
	r := g.rng.Float64()
	switch {
	case r < up && g.state < model.StateClosed:
		return g.state + 1
	case r < up+down && g.state > model.StateFreeFlow:
		return g.state - 1
	default:
		return g.state
	}
}
