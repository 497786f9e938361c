package services

import (
	"encoding/json"
	"fmt"
	"time"

	"pupcare/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// SummaryPublisher sends day summaries to an MQTT broker so home dashboards
// can show today's numbers.
type SummaryPublisher struct {
	client      mqtt.Client
	topicPrefix string
}

// NewSummaryPublisher returns nil when MQTT is disabled.
func NewSummaryPublisher(cfg config.MQTTConfig, topicPrefix string) (*SummaryPublisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("pupcare")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return &SummaryPublisher{client: client, topicPrefix: topicPrefix}, nil
}

func DayTopic(prefix string, puppyID uint) string {
	return fmt.Sprintf("%s/puppy/%d/day", prefix, puppyID)
}

// PublishDay publishes a retained JSON summary for the puppy.
func (p *SummaryPublisher) PublishDay(puppyID uint, summary DaySummary) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	token := p.client.Publish(DayTopic(p.topicPrefix, puppyID), 1, true, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to MQTT timed out")
	}
	return token.Error()
}

func (p *SummaryPublisher) Close() {
	if p != nil && p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
