// Package redis opens the Redis connection backing the distributed send
// lock. It wraps go-redis with URL validation, retry, and a health probe.
package redis
