package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/JZhaGuo/trafico/core/model"
	"github.com/JZhaGuo/trafico/infra/logger"
)

// InfluxSink writes forecasting events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx_sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails, so a down metrics backend never blocks service
// startup.
func NewInfluxSinkWithFallback(cfg Config) Sink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

// RecordForecast writes the forecast as a point.
func (s *InfluxSink) RecordForecast(rec ForecastRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("forecast").
		AddTag("method", rec.Method).
		AddTag("available", strconv.FormatBool(rec.Available)).
		AddField("probability", rec.Probability).
		AddField("horizon", rec.Horizon).
		AddField("reason", rec.Reason).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordTraining writes the model evaluation as a point.
func (s *InfluxSink) RecordTraining(rec TrainingRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("training").
		AddField("examples", rec.Examples).
		AddField("accuracy", rec.Accuracy).
		AddField("roc_auc", rec.ROCAUC).
		SetTime(rec.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordIngest writes the stored observation as a point.
func (s *InfluxSink) RecordIngest(obs model.Observation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("observation").
		AddTag("state", obs.State.String()).
		AddField("code", int(obs.State)).
		SetTime(obs.Timestamp)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
