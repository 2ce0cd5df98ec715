package mqtt

import (
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/JZhaGuo/trafico/core/history"
	"github.com/JZhaGuo/trafico/core/model"
	"github.com/JZhaGuo/trafico/infra/logger"
)

// observationMsg mirrors the feed payload. Both the Spanish and English
// spellings of the state column appear upstream.
type observationMsg struct {
	Timestamp string `json:"timestamp"`
	Estado    *int   `json:"estado"`
	State     *int   `json:"state"`
}

// Subscriber appends feed readings to the history store as they arrive.
// Malformed readings are logged and dropped; out-of-range state codes are
// clamped, never dropped.
type Subscriber struct {
	cli      pahoClient
	cfg      Config
	store    history.Store
	onIngest func(model.Observation)
	log      logger.Logger
}

// NewSubscriber connects to the broker. onIngest, if non-nil, is invoked for
// every stored observation (the service hooks metrics there).
func NewSubscriber(cfg Config, store history.Store, onIngest func(model.Observation)) (*Subscriber, error) {
	cfg.SetDefaults()
	cli, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Subscriber{
		cli:      cli,
		cfg:      cfg,
		store:    store,
		onIngest: onIngest,
		log:      logger.New("mqtt_subscriber"),
	}, nil
}

// Start subscribes to the observation topic.
func (s *Subscriber) Start() error {
	tok := s.cli.Subscribe(s.cfg.Topic, s.cfg.QoS, s.handle)
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: subscribe %s: %w", s.cfg.Topic, err)
	}
	s.log.Infof("subscribed to %s", s.cfg.Topic)
	return nil
}

// Close disconnects from the broker.
func (s *Subscriber) Close() {
	s.cli.Disconnect(250)
}

func (s *Subscriber) handle(_ paho.Client, msg paho.Message) {
	obs, err := decodeObservation(msg.Payload())
	if err != nil {
		s.log.Warnf("dropping reading on %s: %v", msg.Topic(), err)
		return
	}
	if err := s.store.Append([]model.Observation{obs}); err != nil {
		s.log.Errorf("append observation: %v", err)
		return
	}
	s.log.Debugw("observation ingested", map[string]any{
		"timestamp": obs.Timestamp,
		"state":     obs.State.String(),
	})
	if s.onIngest != nil {
		s.onIngest(obs)
	}
}

func decodeObservation(payload []byte) (model.Observation, error) {
	var m observationMsg
	if err := json.Unmarshal(payload, &m); err != nil {
		return model.Observation{}, fmt.Errorf("decode payload: %w", err)
	}
	code := m.Estado
	if code == nil {
		code = m.State
	}
	if code == nil {
		return model.Observation{}, model.SchemaError{Field: "estado"}
	}
	if m.Timestamp == "" {
		return model.Observation{}, model.SchemaError{Field: "timestamp"}
	}
	ts, err := model.ParseTimestamp(m.Timestamp)
	if err != nil {
		return model.Observation{}, model.SchemaError{Field: "timestamp"}
	}
	return model.NewObservation(ts, *code)
}
