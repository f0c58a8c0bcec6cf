// Package remote pushes resolved samples to a Prometheus-compatible
// endpoint in text exposition format. The strategy that produced each
// value travels along as a label so provenance survives the hop.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codeberg.org/mutker/pgscout/internal/errors"
)

const (
	metricPrefix   = "pgscout_"
	defaultTimeout = 10 * time.Second
	contentType    = "text/plain; version=0.0.4; charset=utf-8"

	maxErrorBody = 2048
)

// Sample is one value ready to be exposed.
type Sample struct {
	Name      string
	Value     float64
	Strategy  string
	Timestamp time.Time
}

type Pusher struct {
	url    string
	client *http.Client
}

// NewPusher builds a pusher for url. A nil transport means
// http.DefaultTransport; pass a signing transport for managed endpoints.
func NewPusher(url string, transport http.RoundTripper) *Pusher {
	return &Pusher{
		url: url,
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		},
	}
}

// Push POSTs the samples in one request. Non-2xx responses are errors so
// the caller can log and carry on; nothing is retried here.
func (p *Pusher) Push(ctx context.Context, samples []Sample) error {
	errFactory := errors.New()

	if len(samples) == 0 {
		return nil
	}

	body := Encode(samples)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(body))
	if err != nil {
		return errFactory.Wrap(errors.ErrPushFailed, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(req)
	if err != nil {
		return errFactory.Wrap(errors.ErrPushFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errFactory.WithData(errors.ErrPushFailed, struct {
			Status string
			Body   string
		}{
			Status: resp.Status,
			Body:   strings.TrimSpace(string(detail)),
		})
	}

	return nil
}

// Encode renders samples in Prometheus text exposition format.
func Encode(samples []Sample) string {
	var b strings.Builder
	for i := range samples {
		s := &samples[i]
		fmt.Fprintf(&b, "%s%s{strategy=%q} %v %d\n",
			metricPrefix, s.Name, s.Strategy, s.Value, s.Timestamp.UnixMilli())
	}

	return b.String()
}
