// Package redis connects to Redis through github.com/redis/go-redis/v9 with
// retry and timeout handling, and exposes a readiness check.
package redis
