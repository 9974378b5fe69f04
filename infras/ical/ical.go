// Package ical reads and writes iCalendar (RFC 5545) feeds shared with external booking platforms.
package ical

//go:generate go run go.uber.org/mock/mockgen -source=./ical.go -destination=./mocks/ical_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"condo/config"
	"condo/infras/otel"
	"condo/shared/constant"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	ContentType = "text/calendar; charset=utf-8"

	otelAttrURL = "url"

	defaultTimeout = 20 * time.Second
	defaultRPS     = 2
	retryWait      = time.Second
	retryMaxWait   = 5 * time.Second
)

var ErrFeedUnavailable = errors.New("calendar feed unavailable")

// Event is the part of a VEVENT the booking engine cares about.
type Event struct {
	UID     string
	Summary string
	Start   time.Time
	End     time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Event, error)
}

type fetcherImpl struct {
	client  *resty.Client
	limiter *rate.Limiter
	otel    otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Fetcher {
	timeout := time.Duration(cfg.Calendar.FetchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := cfg.Calendar.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.Calendar.FetchRetry).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryMaxWait).
		SetHeader("Accept", "text/calendar").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError
		})

	return newWithClient(client, rate.NewLimiter(rate.Limit(rps), int(rps)+1), otel)
}

func newWithClient(client *resty.Client, limiter *rate.Limiter, otel otel.Otel) Fetcher {
	return &fetcherImpl{client: client, limiter: limiter, otel: otel}
}

// Fetch waits for the shared limiter so a sync run never bursts the platforms.
func (f *fetcherImpl) Fetch(ctx context.Context, url string) (res []Event, err error) {
	ctx, scope := f.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".ical.Fetch")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(otelAttrURL, url)

	if err = f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for fetch slot: %w", err)
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrFeedUnavailable, resp.StatusCode())
	}

	return Parse(bytes.NewReader(resp.Body()))
}
