// Package cache provides the precomputed-ranking cache: a key-value store
// with TTL where writes are whole-value replacements. Concurrent writers
// racing on the same key are safe as last-write-wins; staleness is bounded
// by the TTL, never by a partial write.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is the cache-store abstraction injected into the orchestrator.
type Store interface {
	// Get returns the raw cached value and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value under key wholesale with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// RecommendationKey builds the cache key for one page of a candidate's
// recommendations.
func RecommendationKey(candidateID string, page, limit int) string {
	return fmt.Sprintf("match:rec:%s:%d:%d", candidateID, page, limit)
}

// VettingKey builds the cache key for a job's vetting report.
func VettingKey(jobID string) string {
	return fmt.Sprintf("match:vet:%s", jobID)
}
