package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/JZhaGuo/trafico/core/model"
)

// Publisher sends observations to the feed topic. The simulator uses it to
// stand in for the real upstream provider.
type Publisher struct {
	cli   pahoClient
	topic string
	qos   byte
}

// NewPublisher connects to the broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	cli, err := connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Publisher{cli: cli, topic: cfg.Topic, qos: cfg.QoS}, nil
}

// Publish sends a single observation as JSON.
func (p *Publisher) Publish(o model.Observation) error {
	payload, err := json.Marshal(struct {
		Timestamp string `json:"timestamp"`
		Estado    int    `json:"estado"`
	}{
		Timestamp: o.Timestamp.UTC().Format(time.RFC3339),
		Estado:    int(o.State),
	})
	if err != nil {
		return err
	}
	tok := p.cli.Publish(p.topic, p.qos, false, payload)
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.cli.Disconnect(250)
}
