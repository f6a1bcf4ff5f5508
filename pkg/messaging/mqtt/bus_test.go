// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mqtt_test

import (
	"context"
	"testing"
	"time"

	"github.com/absmach/weather-bridge/logger"
	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/pkg/messaging"
	"github.com/absmach/weather-bridge/pkg/messaging/mqtt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = mqtt.Config{
	URL:      "tcp://127.0.0.1:1",
	ClientID: "weather-bridge-test",
	QoS:      1,
	Timeout:  100 * time.Millisecond,
}

func TestNewBus(t *testing.T) {
	cases := []struct {
		desc string
		qos  byte
		err  bool
	}{
		{desc: "at most once", qos: 0},
		{desc: "exactly once", qos: 2},
		{desc: "invalid qos", qos: 3, err: true},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			c := cfg
			c.QoS = tc.qos
			_, err := mqtt.NewBus(c, logger.NewMock())
			assert.Equal(t, tc.err, err != nil)
		})
	}
}

func TestSetLastWill(t *testing.T) {
	b, err := mqtt.NewBus(cfg, logger.NewMock())
	require.NoError(t, err)

	cases := []struct {
		desc  string
		topic string
		err   error
	}{
		{
			desc:  "empty topic",
			topic: "",
			err:   messaging.ErrEmptyTopic,
		},
		{
			desc:  "first will",
			topic: "weather/inside",
		},
		{
			desc:  "second will",
			topic: "weather/outside",
			err:   messaging.ErrLastWill,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := b.SetLastWill(tc.topic, []byte(`{"status":"stopped"}`))
			assert.True(t, errors.Contains(err, tc.err), "expected %v got %v", tc.err, err)
		})
	}
}

func TestUnreachableBroker(t *testing.T) {
	b, err := mqtt.NewBus(cfg, logger.NewMock())
	require.NoError(t, err)

	assert.False(t, b.IsConnected())
	assert.True(t, errors.Contains(b.Publish(context.Background(), "weather/inside", []byte("{}")), messaging.ErrNotConnected))

	require.NoError(t, b.Connect())
	assert.False(t, b.IsConnected())
	assert.True(t, errors.Contains(b.SetLastWill("weather/inside", nil), messaging.ErrLastWill))
	assert.True(t, errors.Contains(b.Publish(context.Background(), "", []byte("{}")), messaging.ErrEmptyTopic))
	assert.NoError(t, b.Close())
}

func TestCloseWithoutConnect(t *testing.T) {
	b, err := mqtt.NewBus(cfg, logger.NewMock())
	require.NoError(t, err)
	assert.NoError(t, b.Close())
}
