// Package metrics records forecast activity for observability. Sinks are
// strictly outside the forecasting core: the service layer feeds them.
package metrics

import (
	"fmt"
	"time"

	"github.com/JZhaGuo/trafico/core/model"
)

// Config selects and configures the enabled sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9464"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.InfluxEnabled && c.InfluxURL == "" {
		return fmt.Errorf("metrics: influx_url is required when influx is enabled")
	}
	return nil
}

// ForecastRecord captures one façade invocation.
type ForecastRecord struct {
	Method      string // "markov" or "logistic"
	Horizon     int
	Probability float64
	Available   bool
	Reason      string
	Time        time.Time
}

// TrainingRecord captures the held-out metrics of a freshly trained model.
type TrainingRecord struct {
	Examples int
	Accuracy float64
	ROCAUC   float64
	Time     time.Time
}

// Sink records forecasting activity.
type Sink interface {
	RecordForecast(rec ForecastRecord) error
	RecordTraining(rec TrainingRecord) error
	RecordIngest(obs model.Observation) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordForecast(ForecastRecord) error  { return nil }
func (NopSink) RecordTraining(TrainingRecord) error  { return nil }
func (NopSink) RecordIngest(model.Observation) error { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordForecast forwards the record to all sinks, returning the first error.
func (m *MultiSink) RecordForecast(rec ForecastRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordForecast(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordTraining forwards the record to all sinks, returning the first error.
func (m *MultiSink) RecordTraining(rec TrainingRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordTraining(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordIngest forwards the record to all sinks, returning the first error.
func (m *MultiSink) RecordIngest(obs model.Observation) error {
	for _, s := range m.Sinks {
		if err := s.RecordIngest(obs); err != nil {
			return err
		}
	}
	return nil
}
