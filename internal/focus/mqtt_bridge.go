package focus

import (
	"encoding/json"
	"fmt"

	"wave-client/common/mqtt"

	"go.uber.org/zap"
)

// Transport is the subset of the MQTT client the bridge needs.
type Transport interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler mqtt.MessageHandler) error
	Unsubscribe(topics ...string) error
}

// Message is the payload published on the focus topic.
type Message struct {
	On     bool   `json:"on"`
	Origin string `json:"origin"`
}

// MQTTBridge mirrors a Bus onto an MQTT topic so several clients share the
// same focus mode. Remote changes are replayed locally but not republished.
type MQTTBridge struct {
	bus       *Bus
	transport Transport
	topic     string
	origin    string
	logger    *zap.Logger

	subID       uint64
	unsubscribe func()
}

func NewMQTTBridge(bus *Bus, transport Transport, topic, origin string, logger *zap.Logger) *MQTTBridge {
	return &MQTTBridge{
		bus:       bus,
		transport: transport,
		topic:     topic,
		origin:    origin,
		logger:    logger,
	}
}

// Start subscribes to the topic and begins publishing local emissions.
func (b *MQTTBridge) Start() error {
	if err := b.transport.Subscribe(b.topic, b.handle); err != nil {
		return fmt.Errorf("subscribe focus topic: %w", err)
	}
	b.subID, b.unsubscribe = b.bus.subscribe(b.publish)

	b.logger.Info("Focus mode bridge started",
		zap.String("topic", b.topic),
		zap.String("origin", b.origin),
	)
	return nil
}

// Close stops mirroring.
func (b *MQTTBridge) Close() error {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	return b.transport.Unsubscribe(b.topic)
}

func (b *MQTTBridge) publish(on bool) {
	payload, err := json.Marshal(Message{On: on, Origin: b.origin})
	if err != nil {
		b.logger.Error("Failed to encode focus message", zap.Error(err))
		return
	}
	if err := b.transport.Publish(b.topic, payload); err != nil {
		b.logger.Warn("Failed to publish focus mode", zap.Bool("on", on), zap.Error(err))
	}
}

func (b *MQTTBridge) handle(topic string, payload []byte) error {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decode focus message: %w", err)
	}
	if msg.Origin == b.origin {
		return nil
	}
	b.logger.Debug("Focus mode received",
		zap.String("topic", topic),
		zap.String("origin", msg.Origin),
		zap.Bool("on", msg.On),
	)
	b.bus.emit(msg.On, b.subID)
	return nil
}
