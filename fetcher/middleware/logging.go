// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/weather-bridge/fetcher"
)

var _ fetcher.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    fetcher.Service
}

// LoggingMiddleware adds logging facilities to the fetch pipeline.
func LoggingMiddleware(svc fetcher.Service, logger *slog.Logger) fetcher.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) Fetch(ctx context.Context) (res fetcher.Result) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("status", res.Status.String()),
			slog.Int("values", len(res.Values)),
		}
		if res.Fatal != nil {
			args = append(args, slog.String("error", res.Fatal.Error()))
			lm.logger.Error("Fetch cycle failed fatally", args...)
			return
		}
		if res.Status != fetcher.StatusOK {
			lm.logger.Warn("Fetch cycle failed", args...)
			return
		}
		lm.logger.Info("Fetch cycle completed successfully", args...)
	}(time.Now())
	return lm.svc.Fetch(ctx)
}
