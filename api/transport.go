// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	weatherbridge "github.com/absmach/weather-bridge"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MakeHandler returns a HTTP handler exposing health and metrics endpoints.
func MakeHandler(mux *chi.Mux, svcName, instanceID string) http.Handler {
	mux.Get("/health", weatherbridge.Health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
