package ratelimit

import "time"

// Config holds a rate limit.
type Config struct {
	// RequestsPerWindow is the maximum number of requests allowed in the window.
	RequestsPerWindow int
	// WindowSize is the duration of the sliding window.
	WindowSize time.Duration
}

// Valid reports whether the limit can be enforced.
func (c Config) Valid() bool {
	return c.RequestsPerWindow > 0 && c.WindowSize > 0
}

// DefaultConfig allows 10 requests per minute.
func DefaultConfig() Config {
	return Config{
		RequestsPerWindow: 10,
		WindowSize:        time.Minute,
	}
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	// RetryAfter is only set when the request was denied.
	RetryAfter time.Duration
}
