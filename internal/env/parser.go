// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package env loads service configuration from environment variables.
package env

import (
	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable of the service.
const Prefix = "WB_"

type Options struct {
	// Environment keys and values that will be accessible for the service
	Environment map[string]string

	// RequiredIfNoDef automatically sets all env as required if they do not declare 'envDefault'
	RequiredIfNoDef bool

	// Prefix define a prefix for each key, appended to the service prefix
	Prefix string
}

// Parse fills v from variables named Prefix + opts.Prefix + tag.
func Parse(v interface{}, opts ...Options) error {
	o := env.Options{Prefix: Prefix}
	for _, opt := range opts {
		if opt.Environment != nil {
			o.Environment = opt.Environment
		}
		if opt.RequiredIfNoDef {
			o.RequiredIfNoDef = true
		}
		o.Prefix = Prefix + opt.Prefix
	}

	return env.ParseWithOptions(v, o)
}
