package enrich

import (
	"bytes"
	stdctx "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Mindburn-Labs/helm-decide/pkg/canonicalize"
	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

// Client is the condition.Enricher implementation backing
// fetch_from_api (§4.13): cache lookup, circuit breaker, single-flight
// coalescing of concurrent identical calls, and a retrying HTTP
// round-trip.
type Client struct {
	httpClient *http.Client
	endpoints  Table
	cache      Cache

	mu       sync.Mutex
	breakers map[string]*Breaker
	limiters map[string]*rate.Limiter

	group singleflight.Group
}

// NewClient builds a Client over the given endpoint table. cache is
// shared across endpoints; each endpoint still gets its own circuit
// breaker and a token-bucket limiter of 20 requests per second with a
// burst of 20.
func NewClient(endpoints Table, cache Cache) *Client {
	return &Client{
		httpClient: &http.Client{},
		endpoints:  endpoints,
		cache:      cache,
		breakers:   make(map[string]*Breaker),
		limiters:   make(map[string]*rate.Limiter),
	}
}

func (c *Client) breakerFor(name string, cfg CircuitBreakerConfig) *Breaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.breakers[name]
	if !ok {
		b = NewBreaker(cfg)
		c.breakers[name] = b
	}
	return b
}

func (c *Client) limiterFor(name string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[name]
	if !ok {
		l = rate.NewLimiter(rate.Limit(20), 20)
		c.limiters[name] = l
	}
	return l
}

// Fetch implements condition.Enricher. Failure of any kind — unknown
// endpoint, open breaker, exhausted retries, decode error, incomplete
// mapping — degrades to ok=false per the §4.13 non-fatality contract;
// err is reserved for conditions the agent should still surface (none
// at present, kept for interface symmetry with other Evaluators).
func (c *Client) Fetch(std stdctx.Context, endpoint string, params map[string]interface{}) (bool, map[string]dctx.Value, error) {
	cfg, ok := c.endpoints[endpoint]
	if !ok {
		return false, nil, nil
	}

	cacheKey, err := canonicalize.JCSString(map[string]interface{}{"endpoint": endpoint, "params": params})
	if err != nil {
		return false, nil, nil
	}

	if cached, ok := c.cache.Get(std, cacheKey); ok {
		fields, ok := decodeMapping(cached, cfg.Mapping)
		return ok, fields, nil
	}

	breaker := c.breakerFor(endpoint, cfg.CircuitBreaker)
	if !breaker.Allow() {
		return false, nil, nil
	}

	if !c.limiterFor(endpoint).Allow() {
		return false, nil, nil
	}

	result, err, _ := c.group.Do(cacheKey, func() (interface{}, error) {
		return c.call(std, cfg, params)
	})
	if err != nil {
		breaker.RecordFailure()
		return false, nil, nil
	}
	breaker.RecordSuccess()

	body := result.([]byte)
	c.cache.Set(std, cacheKey, body, cfg.Cache.TTL)

	fields, ok := decodeMapping(body, cfg.Mapping)
	return ok, fields, nil
}

// call issues the HTTP round-trip with timeout + exponential backoff
// retries, per §4.13.
func (c *Client) call(std stdctx.Context, cfg EndpointConfig, params map[string]interface{}) ([]byte, error) {
	var lastErr error
	backoff := cfg.Retry.Backoff
	attempts := cfg.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-std.Done():
				return nil, std.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		body, err := c.attempt(std, cfg, params)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) attempt(std stdctx.Context, cfg EndpointConfig, params map[string]interface{}) ([]byte, error) {
	ctx, cancel := stdctx.WithTimeout(std, cfg.Timeout)
	defer cancel()

	var bodyReader io.Reader
	if cfg.Method != MethodGET {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, string(cfg.Method), cfg.URL, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.AuthHeader != "" {
		req.Header.Set("Authorization", cfg.AuthHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("enrich: endpoint %s returned status %d", cfg.URL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// decodeMapping decodes a JSON response body and projects it through
// response_key -> context_key mapping. ok is false unless every mapped
// field was present, per §4.2's "all mapped fields were populated"
// contract for fetch_from_api's boolean result.
func decodeMapping(body []byte, mapping map[string]string) (map[string]dctx.Value, bool) {
	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, false
	}

	fields := make(map[string]dctx.Value, len(mapping))
	for responseKey, contextKey := range mapping {
		v, ok := decoded[responseKey]
		if !ok {
			return nil, false
		}
		fields[contextKey] = v
	}
	return fields, true
}
