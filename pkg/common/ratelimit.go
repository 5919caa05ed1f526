// Package common holds small shared utilities that do not warrant their own
// package.
package common

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter provides thread-safe client-side rate limiting. It keeps a
// scan from hammering a server that is slow to page through a large project
// set.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a RateLimiter with the specified requests per second
// (rps) and burst size. The burst parameter controls how many requests can be
// made at once to accommodate temporary spikes.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until the rate limiter allows an event or the context is
// canceled. It returns an error if the context is canceled while waiting.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}
