// Package cache implements the tag-invalidated cache layer: a Backend
// abstraction with Redis and in-process implementations, a Failover wrapper
// that degrades between them, and the Coordinator that gives read paths
// cache-aside semantics and mutations tag invalidation.
//
// Cached entries are disposable projections. Losing every entry loses no
// information; invalidation always deletes and never overwrites.
package cache

import (
	"context"
	"time"

	id "docroute/pkg/domain"
)

// Backend is a key/value store with per-entry TTL and tag membership.
type Backend interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key with ttl and registers key against each tag.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string) error
	// InvalidateTag removes every key registered under tag, then the tag's
	// own registration, and returns the number of keys removed. A tag is a
	// transient index, not a long-lived set; invalidating an unknown tag is
	// a no-op returning zero.
	InvalidateTag(ctx context.Context, tag string) (int, error)
}

// Tag names form a flat string namespace.
const TagAllDocuments = "documents"

// DocumentTag names the tag holding cached projections of one document.
func DocumentTag(docID id.DocumentID) string {
	return "document:" + docID.String()
}

// BranchTag names the tag holding cached branch listings.
func BranchTag(code id.BranchCode) string {
	return "branch:" + code.String()
}
