package services

import (
	"context"
	"net/http"
	"time"

	"github.com/BillChill/billchill-backend/internal/metrics"
)

// URLChecker decides whether a hospital website is reachable.
type URLChecker interface {
	IsAlive(ctx context.Context, rawURL string) bool
}

// HTTPURLChecker sends a HEAD request, following redirects. Any transport
// error or a final status >= 400 counts as dead.
type HTTPURLChecker struct {
	client  *http.Client
	metrics *metrics.Metrics
}

var _ URLChecker = (*HTTPURLChecker)(nil)

func NewHTTPURLChecker(timeout time.Duration) *HTTPURLChecker {
	return &HTTPURLChecker{
		client:  &http.Client{Timeout: timeout},
		metrics: metrics.Get(),
	}
}

func (c *HTTPURLChecker) IsAlive(ctx context.Context, rawURL string) bool {
	start := time.Now()
	alive := c.check(ctx, rawURL)

	outcome := "alive"
	if !alive {
		outcome = "dead"
	}
	c.metrics.UpstreamDuration.WithLabelValues("url_check", outcome).Observe(time.Since(start).Seconds())
	return alive
}

func (c *HTTPURLChecker) check(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 400
}
