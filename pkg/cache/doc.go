// Package cache provides a small in-memory TTL cache with singleflight
// deduplication of concurrent misses.
//
// The feedback webhook uses it to hold parsed SNS signing certificates so a
// burst of bounce notifications fetches each certificate URL at most once.
package cache
