package simulator

import (
	"testing"
	"time"

	"github.com/JZhaGuo/trafico/core/model"
)

func mondayMorning(t *testing.T) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2025-03-10T06:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func TestSeriesCadenceAndRange(t *testing.T) {
	g := New(1, mondayMorning(t), time.Minute)
	obs := g.Series(300)
	if len(obs) != 300 {
		t.Fatalf("expected 300 observations, got %d", len(obs))
	}
	for i, o := range obs {
		if o.State < model.StateFreeFlow || o.State > model.StateClosed {
			t.Fatalf("observation %d has out-of-range state %d", i, o.State)
		}
		if i > 0 {
			if got := o.Timestamp.Sub(obs[i-1].Timestamp); got != time.Minute {
				t.Fatalf("cadence broken at %d: %v", i, got)
			}
		}
	}
}

func TestSeriesIsDeterministic(t *testing.T) {
	a := New(42, mondayMorning(t), time.Minute).Series(100)
	b := New(42, mondayMorning(t), time.Minute).Series(100)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("divergence at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRushHourCongests(t *testing.T) {
	// 06:30 Monday start: the series spans the morning rush, so congestion
	// must appear; the quiet start guarantees free flow too.
	g := New(7, mondayMorning(t), time.Minute)
	var congested, free int
	for _, o := range g.Series(400) {
		switch {
		case o.State >= model.StateCongested:
			congested++
		case o.State == model.StateFreeFlow:
			free++
		}
	}
	if congested == 0 {
		t.Error("rush hour never congested")
	}
	if free == 0 {
		t.Error("quiet period never free-flowing")
	}
}

func TestIsRushHour(t *testing.T) {
	mustParse := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatal(err)
		}
		return ts
	}
	if !isRushHour(mustParse("2025-03-10T08:00:00Z")) {
		t.Error("Monday 08:00 should be rush hour")
	}
	if isRushHour(mustParse("2025-03-15T08:00:00Z")) {
		t.Error("Saturday 08:00 should not be rush hour")
	}
	if isRushHour(mustParse("2025-03-10T12:00:00Z")) {
		t.Error("Monday noon should not be rush hour")
	}
}
