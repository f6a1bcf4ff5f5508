// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package http loads status pages over HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/absmach/weather-bridge/fetcher"
	"github.com/absmach/weather-bridge/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Status pages are a few kilobytes; anything beyond this is not a receiver.
const maxPageSize = 4 << 20

var _ fetcher.PageSource = (*source)(nil)

type source struct {
	client *http.Client
}

// NewSource returns a page source whose requests are traced and bounded by
// timeout.
func NewSource(timeout time.Duration) fetcher.PageSource {
	return &source{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (s *source) Load(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(fetcher.ErrLoadPage, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(fetcher.ErrLoadPage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(fetcher.ErrLoadPage, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, errors.Wrap(fetcher.ErrLoadPage, err)
	}
	return page, nil
}
