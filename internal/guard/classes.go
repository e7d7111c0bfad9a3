package guard

import "time"

// Set bundles the limiters for the three endpoint classes. Auth and query
// endpoints are keyed by client IP, action endpoints by wallet.
type Set struct {
	Auth   *RateLimiter
	Action *RateLimiter
	Query  *RateLimiter
}

// NewSet builds the standard limiter set:
//
//	auth    10 requests / minute  per IP
//	action  30 requests / 10s     per wallet
//	query   100 requests / 10s    per IP
func NewSet() *Set {
	return &Set{
		Auth:   NewRateLimiter(10, time.Minute),
		Action: NewRateLimiter(30, 10*time.Second),
		Query:  NewRateLimiter(100, 10*time.Second),
	}
}
