package api

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// RateGatedClient wraps http.Client with a global minimum delay between
// consecutive requests. All outbound calls serialize through the gate, so
// the provider never sees bursts regardless of how many call sites exist.
type RateGatedClient struct {
	client     *http.Client
	gate       *rateGate
	maxRetries int
	backoff    time.Duration
}

type rateGate struct {
	mu       sync.Mutex
	minDelay time.Duration
	lastCall time.Time
}

func newRateGate(minDelay time.Duration) *rateGate {
	return &rateGate{minDelay: minDelay}
}

// wait blocks until at least minDelay has elapsed since the previous call.
// The lock is held across the sleep so callers are fully serialized.
func (g *rateGate) wait() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.minDelay > 0 && !g.lastCall.IsZero() {
		if elapsed := time.Since(g.lastCall); elapsed < g.minDelay {
			time.Sleep(g.minDelay - elapsed)
		}
	}
	g.lastCall = time.Now()
}

// NewRateGatedClient creates a client that leaves at least minDelay between
// requests and retries failures up to maxRetries times with a fixed backoff.
func NewRateGatedClient(minDelay, timeout time.Duration, maxRetries int, backoff time.Duration) *RateGatedClient {
	return &RateGatedClient{
		client: &http.Client{
			Timeout: timeout,
		},
		gate:       newRateGate(minDelay),
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// Do executes an HTTP request through the rate gate with retries.
func (c *RateGatedClient) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.backoff)
		}
		c.gate.wait()

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// Get performs a rate-gated GET request and returns the response body.
func (c *RateGatedClient) Get(url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
