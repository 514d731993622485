package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/grinchdubs/performance-companion/internal/config"
	"github.com/grinchdubs/performance-companion/internal/types"
)

// MQTTListener subscribes to topic-addressed messages on a broker and
// forwards decoded events to its handler. It also announces companion
// status (online/offline) on the configured status topic; status delivery
// is fire-and-forget and never affects ingestion.
type MQTTListener struct {
	cfg        config.MQTTSourceConfig
	instanceID string
	handler    Handler
	client     mqtt.Client

	mu        sync.RWMutex
	connected bool
	received  uint64
	malformed uint64
}

// NewMQTT creates an MQTT listener for the configured broker and topics.
func NewMQTT(cfg config.MQTTSourceConfig, instanceID string, handler Handler) *MQTTListener {
	return &MQTTListener{
		cfg:        cfg,
		instanceID: instanceID,
		handler:    handler,
	}
}

// Name identifies the listener in logs.
func (l *MQTTListener) Name() string {
	return "mqtt"
}

// Start connects to the broker and subscribes to the configured topics.
// A connection failure is fatal to startup; later disconnects auto-reconnect
// and re-subscribe through the OnConnect handler.
func (l *MQTTListener) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", l.cfg.Broker))
	opts.SetClientID("companion-" + l.instanceID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		l.mu.Lock()
		l.connected = true
		l.mu.Unlock()
		slog.Info("mqtt connection established",
			"broker", l.cfg.Broker,
			"auto_reconnect", "enabled",
		)

		for _, topic := range l.cfg.Topics {
			token := c.Subscribe(topic, 0, l.messageHandler)
			if !token.WaitTimeout(5 * time.Second) {
				slog.Error("mqtt subscription timeout", "topic", topic)
				continue
			}
			if err := token.Error(); err != nil {
				slog.Error("mqtt subscription failed", "topic", topic, "error", err)
				continue
			}
			slog.Info("subscribed to mqtt topic", "topic", topic)
		}

		l.publishStatus("online")
	}

	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		l.mu.Lock()
		l.connected = false
		l.mu.Unlock()
		slog.Warn("mqtt connection lost, will auto-reconnect",
			"error", err,
			"broker", l.cfg.Broker,
		)
	}

	l.client = mqtt.NewClient(opts)

	slog.Info("connecting to mqtt broker", "broker", l.cfg.Broker)

	token := l.client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}

	return nil
}

// Stop announces offline status and disconnects from the broker.
func (l *MQTTListener) Stop() error {
	if l.client == nil {
		return nil
	}

	if l.client.IsConnected() {
		l.publishStatus("offline")
		for _, topic := range l.cfg.Topics {
			token := l.client.Unsubscribe(topic)
			token.WaitTimeout(2 * time.Second)
		}
	}

	l.client.Disconnect(250) // 250ms grace period

	l.mu.Lock()
	l.connected = false
	l.mu.Unlock()

	slog.Info("mqtt listener stopped")
	return nil
}

// Connected reports whether the broker connection is up.
func (l *MQTTListener) Connected() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.connected
}

// messageHandler decodes one inbound message. A malformed payload is logged
// and dropped; it never stops the subscription.
func (l *MQTTListener) messageHandler(client mqtt.Client, msg mqtt.Message) {
	// Our own retained status publishes come back through the wildcard
	// subscription; they are not telemetry.
	if msg.Topic() == l.cfg.StatusTopic {
		return
	}

	l.mu.Lock()
	l.received++
	l.mu.Unlock()

	ev, err := DecodeTopic(msg.Topic(), msg.Payload())
	if err != nil {
		l.mu.Lock()
		l.malformed++
		l.mu.Unlock()
		slog.Warn("dropping malformed mqtt message",
			"topic", msg.Topic(),
			"error", err,
		)
		return
	}
	if ev.Kind == types.EventUnrecognized {
		slog.Debug("unhandled mqtt topic", "topic", msg.Topic())
	}

	l.handler(ev)
}

// publishStatus announces companion status. Fire-and-forget: failures are
// logged and otherwise ignored.
func (l *MQTTListener) publishStatus(status string) {
	if l.cfg.StatusTopic == "" {
		return
	}

	body, err := json.Marshal(map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		slog.Error("failed to marshal status", "error", err)
		return
	}

	token := l.client.Publish(l.cfg.StatusTopic, 0, true, body)
	if !token.WaitTimeout(2 * time.Second) {
		slog.Warn("status publish timeout", "status", status)
		return
	}
	if err := token.Error(); err != nil {
		slog.Warn("status publish failed", "status", status, "error", err)
		return
	}

	slog.Debug("status published", "topic", l.cfg.StatusTopic, "status", status)
}
