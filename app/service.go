// Package app wires the forecasting engine to its collaborators: the history
// store, the MQTT observation feed, and the metrics sinks. The engine itself
// stays pure; this layer owns all refresh and I/O.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/JZhaGuo/trafico/config"
	"github.com/JZhaGuo/trafico/core/forecast"
	"github.com/JZhaGuo/trafico/core/history"
	"github.com/JZhaGuo/trafico/core/model"
	"github.com/JZhaGuo/trafico/infra/logger"
	"github.com/JZhaGuo/trafico/infra/metrics"
	"github.com/JZhaGuo/trafico/infra/mqtt"
	"github.com/JZhaGuo/trafico/infra/store"
)

// Service runs the ingestion feed and the periodic forecast loop.
type Service struct {
	cfg   *config.Config
	store history.Store
	sub   *mqtt.Subscriber
	sink  metrics.Sink
	log   logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	st, err := newStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	sink := buildSink(cfg.Metrics, logg)
	sub, err := mqtt.NewSubscriber(cfg.MQTT, st, func(o model.Observation) {
		if err := sink.RecordIngest(o); err != nil {
			logg.Warnf("record ingest: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("mqtt subscriber: %w", err)
	}

	return &Service{cfg: cfg, store: st, sub: sub, sink: sink, log: logg}, nil
}

func newStore(cfg config.StorageConfig) (history.Store, error) {
	switch cfg.Backend {
	case "csv":
		return store.NewCSVStore(cfg.Path), nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %s", cfg.Backend)
	}
}

func buildSink(cfg metrics.Config, logg logger.Logger) metrics.Sink {
	var sinks []metrics.Sink
	if cfg.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			logg.Errorf("prom sink: %v", err)
		} else {
			sinks = append(sinks, sink)
		}
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return metrics.NopSink{}
	case 1:
		return sinks[0]
	default:
		return metrics.NewMultiSink(sinks...)
	}
}

// Run starts the feed and the forecast loop, blocking until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.sub.Start(); err != nil {
		return err
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	interval := time.Duration(s.cfg.Forecast.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.log.Infof("forecast loop started, every %s, horizon %d steps", interval, s.cfg.Forecast.HorizonSteps)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick loads a fresh snapshot and re-invokes the façade. The engine caches
// nothing; staleness is bounded by the loop interval alone.
func (s *Service) tick() {
	hist, err := s.store.Load()
	if err != nil {
		s.log.Errorf("load history: %v", err)
		return
	}
	fc := s.cfg.Forecast

	mres, err := forecast.Markov(hist, fc.HorizonSteps, fc.Congested())
	if err != nil {
		s.log.Warnf("markov forecast unavailable: %v", err)
	} else {
		s.log.Infof("markov: congestion probability %.3f at +%d steps", mres.Probability, fc.HorizonSteps)
	}
	s.record(metrics.ForecastRecord{
		Method:      "markov",
		Horizon:     fc.HorizonSteps,
		Probability: mres.Probability,
		Available:   mres.Available,
		Reason:      mres.Reason,
		Time:        time.Now(),
	})

	lres, err := forecast.Logistic(hist, fc.HorizonSteps, fc.Threshold(), fc.Classifier)
	if err != nil {
		s.log.Warnf("logistic forecast unavailable: %v", err)
	} else {
		s.log.Infof("logistic: congestion probability %.3f (acc %.3f, roc-auc %.3f)",
			lres.Probability, lres.Accuracy, lres.ROCAUC)
		if err := s.sink.RecordTraining(metrics.TrainingRecord{
			Examples: hist.Len(),
			Accuracy: lres.Accuracy,
			ROCAUC:   lres.ROCAUC,
			Time:     time.Now(),
		}); err != nil {
			s.log.Warnf("record training: %v", err)
		}
	}
	s.record(metrics.ForecastRecord{
		Method:      "logistic",
		Horizon:     fc.HorizonSteps,
		Probability: lres.Probability,
		Available:   lres.Available,
		Reason:      lres.Reason,
		Time:        time.Now(),
	})
}

func (s *Service) record(rec metrics.ForecastRecord) {
	if err := s.sink.RecordForecast(rec); err != nil {
		s.log.Warnf("record forecast: %v", err)
	}
}

// Close disconnects the feed.
func (s *Service) Close() error {
	s.sub.Close()
	return nil
}
