package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JZhaGuo/trafico/core/model"
)

// PromSink exposes forecasting activity as Prometheus metrics.
type PromSink struct {
	forecasts    *prometheus.CounterVec
	probability  *prometheus.GaugeVec
	accuracy     prometheus.Gauge
	rocAUC       prometheus.Gauge
	observations *prometheus.CounterVec
}

// NewPromSink registers the forecasting metrics on the provided registerer.
// If reg is nil, the default registerer is used. Already-registered
// collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trafico_forecasts_total",
			Help: "Total number of forecast invocations",
		}, []string{"method", "available"}),
		probability: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trafico_forecast_probability",
			Help: "Most recent congestion probability per method",
		}, []string{"method"}),
		accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trafico_model_accuracy",
			Help: "Held-out accuracy of the most recent classifier",
		}),
		rocAUC: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trafico_model_roc_auc",
			Help: "Held-out ROC-AUC of the most recent classifier",
		}),
		observations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trafico_observations_ingested_total",
			Help: "Total number of observations appended to the history",
		}, []string{"state"}),
	}

	collectors := []prometheus.Collector{s.forecasts, s.probability, s.accuracy, s.rocAUC, s.observations}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.forecasts = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				s.probability = are.ExistingCollector.(*prometheus.GaugeVec)
			case 2:
				s.accuracy = are.ExistingCollector.(prometheus.Gauge)
			case 3:
				s.rocAUC = are.ExistingCollector.(prometheus.Gauge)
			case 4:
				s.observations = are.ExistingCollector.(*prometheus.CounterVec)
			}
		}
	}
	return s, nil
}

// RecordForecast counts the invocation and, when available, publishes the
// probability gauge.
func (s *PromSink) RecordForecast(rec ForecastRecord) error {
	s.forecasts.WithLabelValues(rec.Method, strconv.FormatBool(rec.Available)).Inc()
	if rec.Available {
		s.probability.WithLabelValues(rec.Method).Set(rec.Probability)
	}
	return nil
}

// RecordTraining publishes the held-out metrics of the latest model.
func (s *PromSink) RecordTraining(rec TrainingRecord) error {
	s.accuracy.Set(rec.Accuracy)
	s.rocAUC.Set(rec.ROCAUC)
	return nil
}

// RecordIngest counts a stored observation by state.
func (s *PromSink) RecordIngest(obs model.Observation) error {
	s.observations.WithLabelValues(obs.State.String()).Inc()
	return nil
}
