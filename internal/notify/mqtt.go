package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/icad-go/tonedetect/internal/faults"
	"github.com/icad-go/tonedetect/internal/types"
)

// MQTT publishes a segment's summary to a broker topic.
type MQTT struct {
	Client mqtt.Client
	Topic  string
	QoS    byte
}

// NewMQTT connects to broker and returns a ready-to-use MQTT sink.
func NewMQTT(broker, clientID, topic string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID).SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("%w: connect: %w", faults.ErrSink, token.Error())
	}

	return &MQTT{Client: client, Topic: topic, QoS: 1}, nil
}

// Notify publishes segment to the configured topic.
func (m *MQTT) Notify(ctx context.Context, segment types.Segment) error {
	body, err := json.Marshal(segment)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", faults.ErrSink, err)
	}

	token := m.Client.Publish(m.Topic, m.QoS, false, body)

	done := make(chan struct{})

	go func() {
		token.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", faults.ErrSink, ctx.Err())
	case <-done:
	}

	if token.Error() != nil {
		return fmt.Errorf("%w: publish: %w", faults.ErrSink, token.Error())
	}

	return nil
}
