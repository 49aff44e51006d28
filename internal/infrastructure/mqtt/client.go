// Package mqtt announces device state changes to an MQTT broker so wall
// panels and automations can follow the inventory without polling the API.
package mqtt

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/hollis-dev/homeinv-core/internal/infrastructure/config"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 250 // milliseconds

	maxQoS = 2

	// maxPayloadSize caps publishes at 1MB, aligned with broker defaults.
	maxPayloadSize = 1 << 20
)

// Client wraps paho.mqtt.golang for publishing device state.
// All methods are safe for concurrent use.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig

	mu        sync.RWMutex
	connected bool
}

// Connect establishes a connection to the configured broker with
// auto-reconnect enabled.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(connectTimeout)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	c := &Client{cfg: cfg}

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, _ error) {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	})

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The OnConnect callback runs asynchronously and may not have fired
	// yet; mark connected here so IsConnected is immediately true.
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	return c, nil
}

// Publish sends a message to the given topic.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishRetained publishes a retained state message at the configured QoS.
// New subscribers immediately receive the last state for the topic.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}

// IsConnected reports the last known connection state.
func (c *Client) IsConnected() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// Close disconnects from the broker after a short quiesce for pending
// publishes.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}

	c.client.Disconnect(disconnectQuiesce)

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	return nil
}
