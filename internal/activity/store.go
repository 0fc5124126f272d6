package activity

import (
	"context"

	id "docroute/pkg/domain"
)

// Store persists activity events. Append-only; events are never updated or
// deleted.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDocument(ctx context.Context, docID id.DocumentID) ([]Event, error)
	ListByActor(ctx context.Context, actorID id.UserID) ([]Event, error)
}
