// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains weather-bridge main function to start the service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"

	"github.com/absmach/weather-bridge/api"
	"github.com/absmach/weather-bridge/fetcher"
	"github.com/absmach/weather-bridge/fetcher/html"
	fetcherhttp "github.com/absmach/weather-bridge/fetcher/http"
	"github.com/absmach/weather-bridge/fetcher/middleware"
	fetchertracing "github.com/absmach/weather-bridge/fetcher/tracing"
	"github.com/absmach/weather-bridge/internal/env"
	"github.com/absmach/weather-bridge/internal/jaeger"
	"github.com/absmach/weather-bridge/internal/server"
	httpserver "github.com/absmach/weather-bridge/internal/server/http"
	wblog "github.com/absmach/weather-bridge/logger"
	"github.com/absmach/weather-bridge/pkg/clock"
	"github.com/absmach/weather-bridge/pkg/messaging"
	"github.com/absmach/weather-bridge/pkg/messaging/mqtt"
	bustracing "github.com/absmach/weather-bridge/pkg/messaging/tracing"
	"github.com/absmach/weather-bridge/pkg/prometheus"
	"github.com/absmach/weather-bridge/pkg/ticker"
	"github.com/absmach/weather-bridge/pkg/uuid"
	"github.com/absmach/weather-bridge/runner"
	"github.com/absmach/weather-bridge/timeseries"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName         = "weather-bridge"
	envPrefixRunner = "RUNNER_"
	envPrefixFetch  = "FETCHER_"
	envPrefixMQTT   = "MQTT_"
	envPrefixHTTP   = "HTTP_"
	defSvcHTTPPort  = "9021"
	clientIDPrefix  = "weather-bridge-"
)

type config struct {
	LogLevel   string  `env:"LOG_LEVEL"          envDefault:"info"`
	InstanceID string  `env:"INSTANCE_ID"        envDefault:""`
	JaegerURL  url.URL `env:"JAEGER_URL"         envDefault:""`
	TraceRatio float64 `env:"JAEGER_TRACE_RATIO" envDefault:"1.0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := wblog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err.Error())
	}

	var exitCode int
	defer wblog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1

			return
		}
	}

	runnerCfg := runner.Config{}
	if err := env.Parse(&runnerCfg, env.Options{Prefix: envPrefixRunner}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s runner configuration : %s", svcName, err))
		exitCode = 1

		return
	}
	if err := runnerCfg.Validate(); err != nil {
		logger.Error(err.Error())
		exitCode = 1

		return
	}

	fetchCfg := fetcher.Config{}
	if err := env.Parse(&fetchCfg, env.Options{Prefix: envPrefixFetch}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s fetcher configuration : %s", svcName, err))
		exitCode = 1

		return
	}
	if err := fetchCfg.Validate(); err != nil {
		logger.Error(err.Error())
		exitCode = 1

		return
	}

	mqttCfg := mqtt.Config{}
	if err := env.Parse(&mqttCfg, env.Options{Prefix: envPrefixMQTT}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s MQTT configuration : %s", svcName, err))
		exitCode = 1

		return
	}
	if mqttCfg.ClientID == "" {
		mqttCfg.ClientID = clientIDPrefix + cfg.InstanceID
	}

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1

		return
	}

	tracer := trace.NewNoopTracerProvider().Tracer(svcName)
	if cfg.JaegerURL != (url.URL{}) {
		tp, err := jaeger.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to init Jaeger: %s", err))
			exitCode = 1

			return
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error(fmt.Sprintf("Error shutting down tracer provider: %v", err))
			}
		}()
		tracer = tp.Tracer(svcName)
	}

	clk := clock.New()
	svc, err := newService(fetchCfg, clk, tracer, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create %s fetch service: %s", svcName, err))
		exitCode = 1

		return
	}

	bus, err := newBus(mqttCfg, tracer, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create MQTT client: %s", err))
		exitCode = 1

		return
	}

	rn, err := runner.New(runnerCfg, svc, bus, clk, ticker.NewTicker(runnerCfg.PollInterval), logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create %s runner: %s", svcName, err))
		exitCode = 1

		return
	}

	hs := httpserver.New(ctx, cancel, svcName, httpServerConfig, api.MakeHandler(chi.NewRouter(), svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		defer cancel()
		return rn.Run(ctx)
	})

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
		exitCode = 1
	}
}

func newService(cfg fetcher.Config, clk clock.Clock, tracer trace.Tracer, logger *slog.Logger) (fetcher.Service, error) {
	job := fetcher.FroggitWH2600(cfg, clk)
	source := fetcherhttp.NewSource(cfg.RequestTimeout)

	svc, err := fetcher.New(cfg.URL, job, source, html.NewParser(), timeseries.NewRegistry(), clk, logger)
	if err != nil {
		return nil, err
	}
	svc = fetchertracing.New(svc, tracer, job.Kind, cfg.URL)
	svc = middleware.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics("weather_bridge", "fetcher")
	svc = middleware.MetricsMiddleware(svc, counter, latency)

	return svc, nil
}

func newBus(cfg mqtt.Config, tracer trace.Tracer, logger *slog.Logger) (messaging.Bus, error) {
	bus, err := mqtt.NewBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	host := cfg.URL
	if u, err := url.Parse(cfg.URL); err == nil && u.Host != "" {
		host = u.Host
	}

	return bustracing.New(tracer, bus, host), nil
}
