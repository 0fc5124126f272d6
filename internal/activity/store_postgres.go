package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "docroute/pkg/domain"
)

// PostgresStore is the production activity Store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed activity store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO activity_events (
			id, occurred_at, document_id, actor_id, branch_code, action,
			from_status, to_status, slot_index, comment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(), event.Timestamp, uuid.UUID(event.DocumentID), uuid.UUID(event.ActorID),
		int(event.BranchCode), string(event.Action),
		nullIfEmpty(event.FromStatus), nullIfEmpty(event.ToStatus),
		event.SlotIndex, event.Comment)
	if err != nil {
		return fmt.Errorf("append activity event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByDocument(ctx context.Context, docID id.DocumentID) ([]Event, error) {
	query := selectEvent + ` WHERE document_id = $1 ORDER BY occurred_at ASC`
	return s.list(ctx, query, uuid.UUID(docID))
}

func (s *PostgresStore) ListByActor(ctx context.Context, actorID id.UserID) ([]Event, error) {
	query := selectEvent + ` WHERE actor_id = $1 ORDER BY occurred_at ASC`
	return s.list(ctx, query, uuid.UUID(actorID))
}

func (s *PostgresStore) list(ctx context.Context, query string, arg any) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list activity events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var docUUID, actorUUID uuid.UUID
		var branch int
		var from, to sql.NullString
		if err := rows.Scan(
			&e.Timestamp, &docUUID, &actorUUID, &branch, (*string)(&e.Action),
			&from, &to, &e.SlotIndex, &e.Comment,
		); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		e.DocumentID = id.DocumentID(docUUID)
		e.ActorID = id.UserID(actorUUID)
		e.BranchCode = id.BranchCode(branch)
		e.FromStatus = from.String
		e.ToStatus = to.String
		out = append(out, e)
	}
	return out, rows.Err()
}

const selectEvent = `
	SELECT occurred_at, document_id, actor_id, branch_code, action,
	       from_status, to_status, slot_index, comment
	FROM activity_events`

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
