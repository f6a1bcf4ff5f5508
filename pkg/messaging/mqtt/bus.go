// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package mqtt implements the message bus on an MQTT broker.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/pkg/messaging"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const maxQoS = 2

var (
	errWillRegistered = errors.New("last will already registered")
	errWillConnected  = errors.New("last will must be registered before connecting")
	errInvalidQoS     = errors.New("invalid QoS")
)

var _ messaging.Bus = (*bus)(nil)

type bus struct {
	mu     sync.Mutex
	cfg    Config
	opts   *mqtt.ClientOptions
	client mqtt.Client
	will   string
	logger *slog.Logger
}

// NewBus returns an MQTT bus. The connection is opened by Connect.
func NewBus(cfg Config, logger *slog.Logger) (messaging.Bus, error) {
	if cfg.QoS > maxQoS {
		return nil, errors.Wrap(errInvalidQoS, fmt.Errorf("qos %d", cfg.QoS))
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(cfg.Timeout).
		SetConnectRetry(true).
		SetAutoReconnect(true).
		SetCleanSession(true)

	b := &bus{
		cfg:    cfg,
		opts:   opts,
		logger: logger,
	}
	opts.SetOnConnectHandler(func(mqtt.Client) {
		b.logger.Info("Connected to MQTT broker", slog.String("url", cfg.URL))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		b.logger.Warn("Lost connection to MQTT broker", slog.String("url", cfg.URL), slog.String("error", err.Error()))
	})
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		b.logger.Debug("Reconnecting to MQTT broker", slog.String("url", cfg.URL))
	})

	return b, nil
}

// SetLastWill registers the will. An MQTT connection carries a single will,
// so only the first registration succeeds.
func (b *bus) SetLastWill(topic string, payload []byte) error {
	if topic == "" {
		return errors.Wrap(messaging.ErrLastWill, messaging.ErrEmptyTopic)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return errors.Wrap(messaging.ErrLastWill, errWillConnected)
	}
	if b.will != "" {
		return errors.Wrap(messaging.ErrLastWill, errors.Wrap(errWillRegistered, fmt.Errorf("topic %s", b.will)))
	}
	b.opts.SetBinaryWill(topic, payload, b.cfg.QoS, b.cfg.Retain)
	b.will = topic
	return nil
}

func (b *bus) Connect() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client == nil {
		b.client = mqtt.NewClient(b.opts)
	}
	// With connect retry the token completes only once connected.
	token := b.client.Connect()
	select {
	case <-token.Done():
		return token.Error()
	default:
		return nil
	}
}

func (b *bus) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.client != nil && b.client.IsConnectionOpen()
}

func (b *bus) Publish(ctx context.Context, topic string, payload []byte) error {
	if topic == "" {
		return messaging.ErrEmptyTopic
	}
	if !b.IsConnected() {
		return messaging.ErrNotConnected
	}

	token := b.client.Publish(topic, b.cfg.QoS, b.cfg.Retain, payload)
	timer := time.NewTimer(b.cfg.Timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return messaging.ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client == nil {
		return nil
	}
	b.client.Disconnect(uint(b.cfg.Timeout.Milliseconds()))
	return nil
}
