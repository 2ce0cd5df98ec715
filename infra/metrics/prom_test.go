package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JZhaGuo/trafico/core/model"
)

func TestPromSinkRecordForecast(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	if err := sink.RecordForecast(ForecastRecord{
		Method:      "markov",
		Horizon:     15,
		Probability: 0.42,
		Available:   true,
		Time:        time.Now(),
	}); err != nil {
		t.Fatalf("record forecast: %v", err)
	}
	if err := sink.RecordForecast(ForecastRecord{
		Method:    "logistic",
		Available: false,
		Reason:    "insufficient history",
	}); err != nil {
		t.Fatalf("record forecast: %v", err)
	}

	expected := `
# HELP trafico_forecasts_total Total number of forecast invocations
# TYPE trafico_forecasts_total counter
trafico_forecasts_total{available="false",method="logistic"} 1
trafico_forecasts_total{available="true",method="markov"} 1
`
	if err := testutil.CollectAndCompare(sink.forecasts, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected counters: %v", err)
	}

	if got := testutil.ToFloat64(sink.probability.WithLabelValues("markov")); got != 0.42 {
		t.Errorf("probability gauge = %v, want 0.42", got)
	}
	// Unavailable forecasts must not move the probability gauge.
	if got := testutil.ToFloat64(sink.probability.WithLabelValues("logistic")); got != 0 {
		t.Errorf("logistic probability gauge = %v, want 0", got)
	}
}

func TestPromSinkRecordTrainingAndIngest(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	if err := sink.RecordTraining(TrainingRecord{Examples: 200, Accuracy: 0.91, ROCAUC: 0.95}); err != nil {
		t.Fatalf("record training: %v", err)
	}
	if got := testutil.ToFloat64(sink.accuracy); got != 0.91 {
		t.Errorf("accuracy gauge = %v", got)
	}
	if got := testutil.ToFloat64(sink.rocAUC); got != 0.95 {
		t.Errorf("roc_auc gauge = %v", got)
	}

	obs := model.Observation{Timestamp: time.Now(), State: model.StateCongested}
	if err := sink.RecordIngest(obs); err != nil {
		t.Fatalf("record ingest: %v", err)
	}
	if got := testutil.ToFloat64(sink.observations.WithLabelValues("congested")); got != 1 {
		t.Errorf("observations counter = %v", got)
	}
}

func TestPromSinkReregistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSink(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSink(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}

func TestMultiSinkFanout(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	multi := NewMultiSink(NopSink{}, prom)

	if err := multi.RecordForecast(ForecastRecord{Method: "markov", Available: true, Probability: 0.2}); err != nil {
		t.Fatalf("fanout forecast: %v", err)
	}
	if got := testutil.ToFloat64(prom.probability.WithLabelValues("markov")); got != 0.2 {
		t.Errorf("fanout did not reach prom sink, gauge = %v", got)
	}
}
