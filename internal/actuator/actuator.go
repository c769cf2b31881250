package actuator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aetheris/internal/config"
	"aetheris/internal/logger"
	"aetheris/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var ErrPublishTimeout = errors.New("actuator publish timed out")

// Sink receives actuator commands derived from each sampled evaluation.
type Sink interface {
	Publish(ctx context.Context, cmd models.ActuatorCommand) error
	Close()
}

// Nop discards commands. Used when MQTT is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, models.ActuatorCommand) error { return nil }
func (Nop) Close()                                                 {}

// Publisher sends commands to a single MQTT topic with QoS 1.
type Publisher struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
	log     *logger.Logger
}

// Connect dials the broker and returns a ready Publisher.
func Connect(cfg config.MQTTConfig, log *logger.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Infow("mqtt_connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("mqtt_connection_lost", "error", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to mqtt broker %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, err)
	}
	return NewPublisher(client, cfg.Topic, cfg.PublishTimeout, log), nil
}

// NewPublisher wraps an already-connected client.
func NewPublisher(client mqtt.Client, topic string, timeout time.Duration, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{client: client, topic: topic, timeout: timeout, log: log}
}

// Publish marshals cmd to JSON and waits for the broker acknowledgement,
// the publish timeout, or ctx, whichever comes first.
func (p *Publisher) Publish(ctx context.Context, cmd models.ActuatorCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal actuator command: %w", err)
	}

	token := p.client.Publish(p.topic, 1, false, payload)

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
	case <-timer.C:
		return ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	p.log.Debugw("actuator_command_published", "topic", p.topic, "class", cmd.Class, "opacity_pct", cmd.SmartGlassOpacityPct)
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

// CommandFrom builds the actuator command for an evaluation.
func CommandFrom(r models.EvaluationResult) models.ActuatorCommand {
	return models.ActuatorCommand{
		IssuedAt:             r.EvaluatedAt,
		Class:                r.Class,
		SmartGlassOpacityPct: r.State.SmartGlassOpacityPct,
		FoundationTempC:      r.State.FoundationTempC,
		ServerHeatOutputW:    r.State.ServerHeatOutputW,
	}
}
