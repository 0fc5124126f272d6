package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"docroute/internal/document/models"
	id "docroute/pkg/domain"
	"docroute/pkg/platform/sentinel"
)

// Postgres is the production Store. UpdateDocumentStatus relies on a single
// conditional UPDATE so the transition-validity check and the write form one
// atomic read-modify-write unit against concurrent callers.
type Postgres struct {
	db    *sql.DB
	clock Clock
}

// PostgresOption configures a Postgres store.
type PostgresOption func(*Postgres)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) PostgresOption {
	return func(s *Postgres) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed document store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	s := &Postgres{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Postgres) CreateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (
			id, status, branch_code, uploader_id, reference_no, subject, period,
			additional_docs_count, additional_docs, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(doc.ID), string(doc.Status), int(doc.BranchCode), uuid.UUID(doc.UploaderID),
		doc.ReferenceNo, doc.Subject, doc.Period,
		doc.AdditionalDocsCount, pq.Array(doc.AdditionalDocs),
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Postgres) GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	query := selectDocument + ` WHERE id = $1`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, uuid.UUID(docID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (s *Postgres) ListByBranch(ctx context.Context, branch id.BranchCode, filter ListFilter) ([]*models.Document, error) {
	clauses := []string{"branch_code = $1"}
	args := []any{int(branch)}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Period != "" {
		args = append(args, filter.Period)
		clauses = append(clauses, fmt.Sprintf("period = $%d", len(args)))
	}
	query := selectDocument + ` WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateDocumentStatus is the optimistic-concurrency primitive: the WHERE
// clause pins the expected current status, so a concurrent transition that
// already moved the document makes this a zero-row update.
func (s *Postgres) UpdateDocumentStatus(ctx context.Context, docID id.DocumentID, expected, next models.Status) error {
	query := `
		UPDATE documents
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	res, err := s.db.ExecContext(ctx, query,
		string(next), s.clock(), uuid.UUID(docID), string(expected))
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Zero rows: either the document is gone or another writer won.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, uuid.UUID(docID),
	).Scan(&exists); err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func (s *Postgres) ReassignBranch(ctx context.Context, docID id.DocumentID, to id.BranchCode) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET branch_code = $1, updated_at = $2 WHERE id = $3`,
		int(to), s.clock(), uuid.UUID(docID))
	if err != nil {
		return fmt.Errorf("reassign branch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reassign branch: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) AppendHistory(ctx context.Context, entry *models.StatusHistoryEntry) error {
	var from *string
	if entry.FromStatus != nil {
		v := string(*entry.FromStatus)
		from = &v
	}
	query := `
		INSERT INTO status_history (id, document_id, from_status, to_status, actor_id, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(), uuid.UUID(entry.DocumentID), from, string(entry.ToStatus),
		uuid.UUID(entry.ActorID), entry.Comment, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *Postgres) ListHistory(ctx context.Context, docID id.DocumentID) ([]*models.StatusHistoryEntry, error) {
	query := `
		SELECT document_id, from_status, to_status, actor_id, comment, created_at
		FROM status_history
		WHERE document_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(docID))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []*models.StatusHistoryEntry
	for rows.Next() {
		var e models.StatusHistoryEntry
		var docUUID, actorUUID uuid.UUID
		var from sql.NullString
		if err := rows.Scan(&docUUID, &from, (*string)(&e.ToStatus), &actorUUID, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.DocumentID = id.DocumentID(docUUID)
		e.ActorID = id.UserID(actorUUID)
		if from.Valid {
			st := models.Status(from.String)
			e.FromStatus = &st
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *Postgres) GetSupplementarySlot(ctx context.Context, docID id.DocumentID, slotIndex int) (*models.SupplementaryFile, error) {
	query := selectSlot + ` WHERE document_id = $1 AND slot_index = $2`
	slot, err := scanSlot(s.db.QueryRowContext(ctx, query, uuid.UUID(docID), slotIndex))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return slot, nil
}

func (s *Postgres) ListSupplementarySlots(ctx context.Context, docID id.DocumentID) ([]*models.SupplementaryFile, error) {
	query := selectSlot + ` WHERE document_id = $1 ORDER BY slot_index`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(docID))
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []*models.SupplementaryFile
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

func (s *Postgres) SaveSupplementarySlot(ctx context.Context, file *models.SupplementaryFile) error {
	query := `
		INSERT INTO supplementary_files (
			document_id, slot_index, name, storage_key, size_bytes, uploader_id,
			verification, verifier_id, verification_comment, uploaded_at, verified_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (document_id, slot_index) DO UPDATE SET
			name = EXCLUDED.name,
			storage_key = EXCLUDED.storage_key,
			size_bytes = EXCLUDED.size_bytes,
			uploader_id = EXCLUDED.uploader_id,
			verification = EXCLUDED.verification,
			verifier_id = EXCLUDED.verifier_id,
			verification_comment = EXCLUDED.verification_comment,
			uploaded_at = EXCLUDED.uploaded_at,
			verified_at = EXCLUDED.verified_at
	`
	var verifier *uuid.UUID
	if !file.VerifierID.IsNil() {
		v := uuid.UUID(file.VerifierID)
		verifier = &v
	}
	var verifiedAt *time.Time
	if !file.VerifiedAt.IsZero() {
		verifiedAt = &file.VerifiedAt
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(file.DocumentID), file.SlotIndex, file.Name, file.StorageKey,
		file.SizeBytes, uuid.UUID(file.UploaderID), string(file.Verification),
		verifier, file.VerificationComment, file.UploadedAt, verifiedAt)
	if err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

const selectDocument = `
	SELECT id, status, branch_code, uploader_id, reference_no, subject, period,
	       additional_docs_count, additional_docs, created_at, updated_at
	FROM documents`

const selectSlot = `
	SELECT document_id, slot_index, name, storage_key, size_bytes, uploader_id,
	       verification, verifier_id, verification_comment, uploaded_at, verified_at
	FROM supplementary_files`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var d models.Document
	var docUUID, uploaderUUID uuid.UUID
	var branch int
	if err := row.Scan(
		&docUUID, (*string)(&d.Status), &branch, &uploaderUUID,
		&d.ReferenceNo, &d.Subject, &d.Period,
		&d.AdditionalDocsCount, pq.Array(&d.AdditionalDocs),
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.ID = id.DocumentID(docUUID)
	d.UploaderID = id.UserID(uploaderUUID)
	d.BranchCode = id.BranchCode(branch)
	return &d, nil
}

func scanSlot(row rowScanner) (*models.SupplementaryFile, error) {
	var f models.SupplementaryFile
	var docUUID, uploaderUUID uuid.UUID
	var verifier *uuid.UUID
	var verifiedAt sql.NullTime
	if err := row.Scan(
		&docUUID, &f.SlotIndex, &f.Name, &f.StorageKey, &f.SizeBytes, &uploaderUUID,
		(*string)(&f.Verification), &verifier, &f.VerificationComment,
		&f.UploadedAt, &verifiedAt,
	); err != nil {
		return nil, err
	}
	f.DocumentID = id.DocumentID(docUUID)
	f.UploaderID = id.UserID(uploaderUUID)
	if verifier != nil {
		f.VerifierID = id.UserID(*verifier)
	}
	if verifiedAt.Valid {
		f.VerifiedAt = verifiedAt.Time
	}
	return &f, nil
}
