// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mqtt

import "time"

// Config of the MQTT bus.
type Config struct {
	URL      string        `env:"URL"       envDefault:"tcp://localhost:1883"`
	ClientID string        `env:"CLIENT_ID" envDefault:""`
	Username string        `env:"USERNAME"  envDefault:""`
	Password string        `env:"PASSWORD"  envDefault:""`
	QoS      byte          `env:"QOS"       envDefault:"1"`
	Retain   bool          `env:"RETAIN"    envDefault:"false"`
	Timeout  time.Duration `env:"TIMEOUT"   envDefault:"10s"`
}
