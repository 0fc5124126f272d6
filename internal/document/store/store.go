// Package store persists documents, supplementary slots, and the status
// history trail. The authoritative store is the single source of truth; the
// cache layer above it is a disposable projection.
package store

import (
	"context"

	"docroute/internal/document/models"
	id "docroute/pkg/domain"
)

// ListFilter narrows branch document listings.
type ListFilter struct {
	Status *models.Status
	Period string
}

// Store is the authoritative persistence contract.
//
// Error conventions: lookups return sentinel.ErrNotFound for absent
// entities; UpdateDocumentStatus returns sentinel.ErrConflict when the
// expected current status no longer matches — the optimistic-concurrency
// primitive every transition rides on.
type Store interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListByBranch(ctx context.Context, branch id.BranchCode, filter ListFilter) ([]*models.Document, error)

	// UpdateDocumentStatus performs the conditional write
	// "SET status = new WHERE id = docID AND status = expected" as one
	// atomic unit. Two concurrent transitions from the same status cannot
	// both win.
	UpdateDocumentStatus(ctx context.Context, docID id.DocumentID, expected, next models.Status) error

	// ReassignBranch moves a document to another branch.
	ReassignBranch(ctx context.Context, docID id.DocumentID, to id.BranchCode) error

	AppendHistory(ctx context.Context, entry *models.StatusHistoryEntry) error
	ListHistory(ctx context.Context, docID id.DocumentID) ([]*models.StatusHistoryEntry, error)

	GetSupplementarySlot(ctx context.Context, docID id.DocumentID, slotIndex int) (*models.SupplementaryFile, error)
	ListSupplementarySlots(ctx context.Context, docID id.DocumentID) ([]*models.SupplementaryFile, error)
	// SaveSupplementarySlot inserts or replaces the slot row (slot index is
	// unique per document).
	SaveSupplementarySlot(ctx context.Context, file *models.SupplementaryFile) error
}
