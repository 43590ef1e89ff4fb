// Package enrich implements the fetch_from_api data enrichment
// operator's supporting infrastructure (§4.13): a process-wide
// named-endpoint table, a pluggable TTL cache, and a circuit breaker,
// wired together behind the condition.Enricher interface so the
// condition package never depends on net/http directly.
//
// Grounded on the teacher's pkg/util/resiliency.EnhancedClient: the
// same timeout+retry+circuit-breaker composition, generalized from a
// single outbound HTTP client into a named-endpoint table keyed by
// enrichment call site.
package enrich

import "time"

// Method is the HTTP verb an endpoint is called with.
type Method string

const (
	MethodGET    Method = "GET"
	MethodPOST   Method = "POST"
	MethodPUT    Method = "PUT"
	MethodDELETE Method = "DELETE"
)

// RetryConfig governs the exponential-backoff retry loop.
type RetryConfig struct {
	MaxAttempts int
	Backoff     time.Duration
}

// CircuitBreakerConfig parameterizes the CLOSED/OPEN/HALF_OPEN
// state machine described in §4.13.
type CircuitBreakerConfig struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}

// CacheConfig selects the TTL and backing adapter for an endpoint's
// response cache.
type CacheConfig struct {
	TTL     time.Duration
	Adapter string // "memory" or "redis"
}

// EndpointConfig is one named entry in the process-wide endpoint
// table (§4.13).
type EndpointConfig struct {
	Name           string
	URL            string
	Method         Method
	AuthHeader     string
	Timeout        time.Duration
	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig
	Cache          CacheConfig
	// Mapping maps response_key -> context_key, applied to the decoded
	// JSON response body to populate the side context (§4.13).
	Mapping map[string]string
}

// Table is the process-wide named-endpoint configuration.
type Table map[string]EndpointConfig
