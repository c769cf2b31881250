package actuator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"aetheris/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func doneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

// fakeClient embeds mqtt.Client so only the methods under test need bodies.
type fakeClient struct {
	mqtt.Client
	token   *fakeToken
	topic   string
	qos     byte
	payload []byte
	closed  bool
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.topic, c.qos = topic, qos
	c.payload = payload.([]byte)
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.closed = true }

func TestPublisher_Publish(t *testing.T) {
	client := &fakeClient{token: doneToken(nil)}
	p := NewPublisher(client, "building/actuators/smart-glass", time.Second, nil)

	cmd := CommandFrom(models.EvaluationResult{
		EvaluatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Class:       models.ClassCritical,
		State:       models.LivingMachineState{SmartGlassOpacityPct: 100, FoundationTempC: 24.9, ServerHeatOutputW: 80},
	})
	if err := p.Publish(context.Background(), cmd); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if client.topic != "building/actuators/smart-glass" || client.qos != 1 {
		t.Fatalf("published to %s qos %d", client.topic, client.qos)
	}

	var got models.ActuatorCommand
	if err := json.Unmarshal(client.payload, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got.SmartGlassOpacityPct != 100 || got.Class != models.ClassCritical {
		t.Fatalf("unexpected payload: %+v", got)
	}

	p.Close()
	if !client.closed {
		t.Fatalf("Close should disconnect")
	}
}

func TestPublisher_BrokerError(t *testing.T) {
	client := &fakeClient{token: doneToken(errors.New("not authorised"))}
	p := NewPublisher(client, "t", time.Second, nil)
	if err := p.Publish(context.Background(), models.ActuatorCommand{}); err == nil {
		t.Fatalf("expected broker error")
	}
}

func TestPublisher_Timeout(t *testing.T) {
	client := &fakeClient{token: &fakeToken{done: make(chan struct{})}}
	p := NewPublisher(client, "t", 20*time.Millisecond, nil)
	if err := p.Publish(context.Background(), models.ActuatorCommand{}); !errors.Is(err, ErrPublishTimeout) {
		t.Fatalf("err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p = NewPublisher(client, "t", time.Minute, nil)
	if err := p.Publish(ctx, models.ActuatorCommand{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestNop(t *testing.T) {
	var s Sink = Nop{}
	if err := s.Publish(context.Background(), models.ActuatorCommand{}); err != nil {
		t.Fatalf("Nop.Publish: %v", err)
	}
	s.Close()
}
