// Package mqtt pushes courier-facing messages over an MQTT broker.
// The courier app subscribes to its own topic; delivery is best effort
// and the dispatch flow never waits on it.
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"refuel/internal/core/domain/model/kernel"
)

const publishTimeout = 5 * time.Second

// Config defines the connection parameters for the notifier client.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// pahoClient is the slice of the paho client the notifier uses,
// swappable in tests.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newPahoClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// courierMessage is the wire shape of one notification.
type courierMessage struct {
	CourierID string `json:"courier_id"`
	Message   string `json:"message"`
	SentAt    int64  `json:"sent_at"`
}

// CourierNotifier implements ports.Notifier over MQTT. Each courier's app
// subscribes to courier/<id>/messages.
type CourierNotifier struct {
	client pahoClient
	qos    byte
	logger *slog.Logger
}

// NewCourierNotifier connects to the broker and returns a ready notifier.
// The underlying client reconnects on its own after connection loss.
func NewCourierNotifier(config Config, logger *slog.Logger) (*CourierNotifier, error) {
	if config.Broker == "" {
		return nil, errors.New("mqtt notifier requires a broker address")
	}

	notifierLogger := logger.With("component", "mqtt_notifier")

	opts := paho.NewClientOptions().AddBroker(config.Broker).SetClientID(config.ClientID)
	opts.AutoReconnect = true
	if config.Username != "" {
		opts.SetUsername(config.Username)
	}
	if config.Password != "" {
		opts.SetPassword(config.Password)
	}
	opts.OnConnect = func(_ paho.Client) {
		notifierLogger.Info("mqtt connected", "broker", config.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		notifierLogger.Error("mqtt connection lost", "error", err)
	}

	client := newPahoClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt notifier cannot connect to %s: %w", config.Broker, token.Error())
	}

	return &CourierNotifier{
		client: client,
		qos:    config.QoS,
		logger: notifierLogger,
	}, nil
}

// Notify publishes one message to the courier's topic. The wait on the
// broker acknowledgment is bounded so a dead broker cannot pin the
// notifying goroutine.
func (n *CourierNotifier) Notify(ctx context.Context, courierID kernel.UUID, message string) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(courierMessage{
		CourierID: courierID.String(),
		Message:   message,
		SentAt:    time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	topic := fmt.Sprintf("courier/%s/messages", courierID)
	token := n.client.Publish(topic, n.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out after %s", topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s failed: %w", topic, err)
	}

	n.logger.DebugContext(ctx, "courier message published", "topic", topic)
	return nil
}

// Close disconnects from the broker, letting in-flight publishes finish.
func (n *CourierNotifier) Close() {
	if n.client != nil && n.client.IsConnected() {
		n.client.Disconnect(250)
	}
}
