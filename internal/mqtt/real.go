package mqtt

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/lau-bin/acer-brightness/internal/backlight"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	bufferCapacity = 128
)

// RealClient publishes to an actual MQTT broker and subscribes to the set
// topic so the backlight can be driven remotely.
type RealClient struct {
	client paho.Client
	setFn  SetFunc

	mu  sync.Mutex
	buf *msgBuffer
}

// NewRealClient connects to the broker. setFn, if non-nil, receives remote
// brightness commands from TopicSet. The client auto-reconnects; messages
// published while disconnected are buffered and replayed on reconnect.
func NewRealClient(broker string, setFn SetFunc) (*RealClient, error) {
	c := &RealClient{
		setFn: setFn,
		buf:   newMsgBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("acer-backlight").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(c.onConnect)

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return c, nil
}

// onConnect runs on every (re)connect: re-subscribe and replay anything
// buffered while the broker was unreachable.
func (c *RealClient) onConnect(client paho.Client) {
	if c.setFn != nil {
		token := client.Subscribe(TopicSet, 1, c.handleSet)
		if token.WaitTimeout(publishTimeout) && token.Error() != nil {
			log.Printf("mqtt: subscribe %s: %v", TopicSet, token.Error())
		}
	}

	c.mu.Lock()
	msgs := c.buf.drain()
	c.mu.Unlock()

	if len(msgs) > 0 {
		log.Printf("mqtt: replaying %d buffered messages", len(msgs))
	}
	for _, m := range msgs {
		client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}

// handleSet parses a remote brightness command. The payload is a bare
// integer; out-of-range values are clamped at this boundary.
func (c *RealClient) handleSet(client paho.Client, msg paho.Message) {
	raw := strings.TrimSpace(string(msg.Payload()))
	level, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("mqtt: ignoring set command %q: %v", raw, err)
		return
	}

	level = backlight.Clamp(level)
	if err := c.setFn(level); err != nil {
		log.Printf("mqtt: remote set %d failed: %v", level, err)
	}
}

// PublishEvent sends a backlight state change, QoS 0.
func (c *RealClient) PublishEvent(event backlight.Event) error {
	payload, err := FormatEventPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return c.publish(TopicEvents, 0, false, payload)
}

// PublishSystem sends a lifecycle event, QoS 1 so shutdown events survive
// flaky links.
func (c *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return c.publish(TopicSystem, 1, event.Retained, payload)
}

func (c *RealClient) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !c.client.IsConnected() {
		c.mu.Lock()
		c.buf.push(outMsg{topic: topic, qos: qos, retained: retained, payload: payload})
		n := c.buf.len()
		c.mu.Unlock()
		return fmt.Errorf("broker unreachable, buffered (%d pending)", n)
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// IsConnected reports the broker connection state.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnected()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // milliseconds
	return nil
}
