// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package formatter partitions fetch results into per-topic JSON payloads.
package formatter

import (
	"encoding/json"
	"time"

	"github.com/absmach/weather-bridge/fetcher"
	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/transform"
)

// Payload keys present in every message.
const (
	KeyStatus    = "status"
	KeyTimestamp = "timestamp"
	KeySensor    = "sensor"
)

// Sensor labels of the default groups.
const (
	SensorInside  = "inside"
	SensorOutside = "outside"
)

// ErrFormat indicates that a payload could not be serialized.
var ErrFormat = errors.New("failed to format payload")

// Group selects result values for one topic. Keys maps result keys to
// payload keys.
type Group struct {
	Sensor string
	Topic  string
	Keys   map[string]string
}

// Message is one serialized payload.
type Message struct {
	Topic   string
	Payload []byte
}

// Inside returns the indoor group published on topic.
func Inside(topic string) Group {
	return Group{
		Sensor: SensorInside,
		Topic:  topic,
		Keys: map[string]string{
			fetcher.KeyTempInside:    "temperature",
			fetcher.KeyHumiInside:    "humidity",
			fetcher.KeyBatteryInside: "battery",
		},
	}
}

// Outside returns the outdoor group published on topic.
func Outside(topic string) Group {
	return Group{
		Sensor: SensorOutside,
		Topic:  topic,
		Keys: map[string]string{
			fetcher.KeyTempOutside:    "temperature",
			fetcher.KeyHumiOutside:    "humidity",
			fetcher.KeyBatteryOutside: "battery",
			fetcher.KeyPressureAbs:    fetcher.KeyPressureAbs,
			fetcher.KeyPressureRel:    fetcher.KeyPressureRel,
			fetcher.KeyWindDirection:  fetcher.KeyWindDirection,
			fetcher.KeyWindSpeed:      fetcher.KeyWindSpeed,
			fetcher.KeyWindGust:       fetcher.KeyWindGust,
			fetcher.KeySolarRadiation: fetcher.KeySolarRadiation,
			fetcher.KeyUV:             fetcher.KeyUV,
			fetcher.KeyUVI:            fetcher.KeyUVI,
			fetcher.KeyRainHourly:     fetcher.KeyRainHourly,
			fetcher.KeyRainCounter:    fetcher.KeyRainCounter,
		},
	}
}

// Split builds one message per group with a topic. Payload keys are sorted
// and nil values are dropped.
func Split(res fetcher.Result, groups []Group, now time.Time) ([]Message, error) {
	res = res.Normalize()

	timestamp, _ := res.Values[fetcher.KeyTimestamp].(string)
	if timestamp == "" {
		timestamp = now.Format(transform.ISOLayout)
	}

	var msgs []Message
	for _, g := range groups {
		if g.Topic == "" {
			continue
		}

		payload := make(map[string]any, len(g.Keys)+3)
		for src, dst := range g.Keys {
			if v := res.Values[src]; v != nil {
				payload[dst] = v
			}
		}

		status := res.Status
		if status == fetcher.StatusOK && len(payload) == 0 {
			status = fetcher.StatusError
		}
		payload[KeyStatus] = status.String()
		payload[KeyTimestamp] = timestamp
		payload[KeySensor] = g.Sensor

		// encoding/json sorts map keys.
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(ErrFormat, err)
		}
		msgs = append(msgs, Message{Topic: g.Topic, Payload: data})
	}

	return msgs, nil
}
