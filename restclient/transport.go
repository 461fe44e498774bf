// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries a per-call identifier, kept the same
// across retries of one call.
const RequestIDHeader = "X-Request-Id"

// maxBackoff caps the wait before any single retry.
const maxBackoff = 120 * time.Second

// retryMethods lists the HTTP methods that may be retried.
var retryMethods = map[string]bool{
	http.MethodHead:    true,
	http.MethodTrace:   true,
	http.MethodGet:     true,
	http.MethodPut:     true,
	http.MethodPost:    true,
	http.MethodOptions: true,
	http.MethodDelete:  true,
}

// retryStatuses lists the HTTP statuses that cause a retry.
var retryStatuses = map[int]bool{
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// retryTransport is an http.RoundTripper that retries requests that
// fail on transient server or network errors.
type retryTransport struct {
	Base          http.RoundTripper
	Retries       int
	BackoffFactor float64
	Clock         clock.Clock
	Log           *logrus.Entry
}

// schedule returns the sequence of waits between attempts: the
// backoff factor in seconds, doubling each time, stopping after
// Retries retries.
func (t *retryTransport) schedule() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(t.BackoffFactor * float64(time.Second))
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(t.Retries))
}

// retryable says whether a request may be retried at all.  Requests
// with bodies must be able to replay them.
func (t *retryTransport) retryable(req *http.Request) bool {
	if t.Retries <= 0 || !retryMethods[req.Method] {
		return false
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return false
	}
	return true
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewV4().String()
		req = req.Clone(ctx)
		req.Header.Set(RequestIDHeader, id)
	}
	log := t.Log.WithFields(logrus.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"request_id": id,
	})

	if !t.retryable(req) {
		return t.roundTrip(log, req)
	}

	b := t.schedule()
	for attempt := 1; ; attempt++ {
		try := req
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			try = req.Clone(ctx)
			try.Body = body
		}
		resp, err := t.roundTrip(log, try)
		if err == nil && !retryStatuses[resp.StatusCode] {
			return resp, nil
		}
		if err != nil && ctx.Err() != nil {
			return nil, err
		}
		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return resp, err
		}
		if resp != nil {
			drain(resp.Body)
		}

		fields := logrus.Fields{"attempt": attempt, "wait": wait}
		if err != nil {
			fields["err"] = err
		} else {
			fields["status"] = resp.StatusCode
		}
		log.WithFields(fields).Warn("retrying request")
		retryCount.WithLabelValues(req.Method).Inc()

		if wait > 0 {
			select {
			case <-t.Clock.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
}

// roundTrip makes a single attempt, counting and logging it.
func (t *retryTransport) roundTrip(log *logrus.Entry, req *http.Request) (*http.Response, error) {
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		requestCount.WithLabelValues(req.Method, "error").Inc()
		log.WithError(err).Debug("request failed")
		return nil, err
	}
	requestCount.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	log.WithField("status", resp.StatusCode).Debug("request")
	return resp, nil
}

// drain discards and closes a response body that will not be read,
// so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(ioutil.Discard, io.LimitReader(body, 1<<20))
	body.Close()
}
