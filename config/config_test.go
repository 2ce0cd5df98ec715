package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `mqtt:
  broker: "tcp://localhost:1883"
  client_id: "trafico-test"
  topic: "city/traffic/state"
storage:
  backend: "csv"
  path: "hist.csv"
forecast:
  horizon_steps: 30
  congested_states: [2, 3]
  interval_seconds: 60
  classifier:
    min_examples: 150
metrics:
  prometheus_enabled: true
  prometheus_addr: ":9500"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "trafico-test"},
		{"topic", cfg.MQTT.Topic, "city/traffic/state"},
		{"storage.backend", cfg.Storage.Backend, "csv"},
		{"storage.path", cfg.Storage.Path, "hist.csv"},
		{"horizon_steps", cfg.Forecast.HorizonSteps, 30},
		{"congested_states", len(cfg.Forecast.CongestedStates), 2},
		{"interval_seconds", cfg.Forecast.IntervalSeconds, 60},
		{"min_examples", cfg.Forecast.Classifier.MinExamples, 150},
		{"test_fraction default", cfg.Forecast.Classifier.TestFraction, 0.25},
		{"seed default", cfg.Forecast.Classifier.Seed, int64(42)},
		{"prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"prometheus_addr", cfg.Metrics.PrometheusAddr, ":9500"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `mqtt:
  broker: "tcp://localhost:1883"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Forecast.HorizonSteps != 15 {
		t.Errorf("default horizon = %d", cfg.Forecast.HorizonSteps)
	}
	if got := cfg.Forecast.Congested(); len(got) != 1 || got[0] != 2 {
		t.Errorf("default congested set = %v", got)
	}
	if cfg.Storage.Backend != "csv" || cfg.Storage.Path != "hist_traffic.csv" {
		t.Errorf("default storage = %+v", cfg.Storage)
	}
	if cfg.MQTT.Topic != "trafico/observations" {
		t.Errorf("default topic = %s", cfg.MQTT.Topic)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad backend":    "mqtt:\n  broker: \"tcp://b:1883\"\nstorage:\n  backend: \"sqlite\"\n",
		"bad state":      "mqtt:\n  broker: \"tcp://b:1883\"\nforecast:\n  congested_states: [5]\n",
		"bad horizon":    "mqtt:\n  broker: \"tcp://b:1883\"\nforecast:\n  horizon_steps: -1\n",
		"missing broker": "storage:\n  backend: \"csv\"\n",
	}
	for name, data := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
