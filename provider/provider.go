// Package provider fetches raw entropy units from a remote quantum random
// number provider over its JSON HTTP API.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/semaphore"

	"github.com/saradhi4688/qrngenv/log"
	"github.com/saradhi4688/qrngenv/modules"
)

// maxRetryWait caps the exponential backoff between retried calls.
const maxRetryWait = 5 * time.Second

var (
	module *modules.Module

	client *Client

	errNotStarted = errors.New("provider module not started")
)

func init() {
	module = modules.Register("provider", prep, start, nil, "config")
}

func prep() error {
	return registerConfig()
}

func start() error {
	client = NewClient()
	return nil
}

// Client fetches entropy units from the configured provider API.
type Client struct {
	resty *resty.Client
	sem   *semaphore.Weighted
}

// NewClient returns a client configured from the provider options.
func NewClient() *Client {
	httpClient := resty.New().
		SetTimeout(time.Duration(requestTimeout()) * time.Second).
		SetRetryCount(int(fetchRetries())).
		SetRetryWaitTime(time.Duration(retryBackoff()) * time.Millisecond).
		SetRetryMaxWaitTime(maxRetryWait).
		AddRetryCondition(shouldRetry).
		SetLogger(restyLogger{})

	return &Client{
		resty: httpClient,
		sem:   semaphore.NewWeighted(maxConcurrentFetches()),
	}
}

// shouldRetry reports whether a call may be repeated: transport errors and
// transient upstream statuses, never client-side rejections.
func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	switch resp.StatusCode() {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// Fetch retrieves count entropy units of the given bit width using the
// shared module client.
func Fetch(ctx context.Context, count, unitBits int) ([]uint16, error) {
	if client == nil {
		return nil, errNotStarted
	}
	return client.Fetch(ctx, count, unitBits)
}

// restyLogger forwards the http client's internal messages to the module log.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	log.Errorf("provider: %s", fmt.Sprintf(format, v...))
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	log.Warningf("provider: %s", fmt.Sprintf(format, v...))
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	log.Debugf("provider: %s", fmt.Sprintf(format, v...))
}
