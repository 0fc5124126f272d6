// Package filestore holds supplementary file content in an S3-compatible
// object store. Only content lives here; slot metadata and verification state
// stay in the document store.
package filestore

import (
	"context"
	"io"
	"strconv"
	"time"

	id "docroute/pkg/domain"
)

// PutOptions carries optional upload parameters. Size should be the exact
// byte count when known, -1 otherwise.
type PutOptions struct {
	Size        int64
	ContentType string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// FileStore is a streaming object store. Implementations must not spool to
// local disk.
type FileStore interface {
	// Put uploads content under key, replacing any previous object.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	// Get returns the object's content and info. Callers close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes the object; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// SlotKey builds the object key for a supplementary slot upload. Re-uploads
// to the same slot overwrite the previous content.
func SlotKey(docID id.DocumentID, slotIndex int, name string) string {
	return "documents/" + docID.String() + "/slots/" + strconv.Itoa(slotIndex) + "/" + name
}
