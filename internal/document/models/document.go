package models

import (
	"strings"
	"time"

	id "docroute/pkg/domain"
	dErrors "docroute/pkg/domain-errors"
)

// Document is the aggregate root for a routed record.
//
// Invariants:
//   - Status is always one of the four defined states
//   - AdditionalDocsCount >= 0 and, when > 0, AdditionalDocs has exactly
//     that many (possibly blank) entries
//   - BranchCode and UploaderID are set at creation
//
// A document has no terminal status; it is operationally complete once it
// sits in acknowledged with every required slot verified. Completeness is
// derived at read time (see DocumentView), never stored.
type Document struct {
	ID                  id.DocumentID `json:"id"`
	Status              Status        `json:"status"`
	BranchCode          id.BranchCode `json:"branch_code"`
	UploaderID          id.UserID     `json:"uploader_id"`
	ReferenceNo         string        `json:"reference_no"`
	Subject             string        `json:"subject"`
	Period              string        `json:"period"`
	AdditionalDocsCount int           `json:"additional_docs_count"`
	AdditionalDocs      []string      `json:"additional_docs,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// NewDocument validates and constructs a Document. Initial status must be
// draft or sent_to_branch (the default when created directly for dispatch).
func NewDocument(docID id.DocumentID, status Status, branch id.BranchCode, uploader id.UserID,
	referenceNo, subject, period string, additionalDocs []string, now time.Time) (*Document, error) {

	if status != StatusDraft && status != StatusSentToBranch {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "initial status must be draft or sent_to_branch")
	}
	if branch <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "document must belong to a branch")
	}
	if uploader.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "uploader is required")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "subject cannot be empty")
	}

	return &Document{
		ID:                  docID,
		Status:              status,
		BranchCode:          branch,
		UploaderID:          uploader,
		ReferenceNo:         strings.TrimSpace(referenceNo),
		Subject:             strings.TrimSpace(subject),
		Period:              strings.TrimSpace(period),
		AdditionalDocsCount: len(additionalDocs),
		AdditionalDocs:      additionalDocs,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// RequiredSlotIndexes returns the declared, non-blank slot indexes. Blank
// entries reserve an index without requiring an attachment.
func (d *Document) RequiredSlotIndexes() []int {
	var out []int
	for i := 0; i < d.AdditionalDocsCount && i < len(d.AdditionalDocs); i++ {
		if strings.TrimSpace(d.AdditionalDocs[i]) != "" {
			out = append(out, i)
		}
	}
	return out
}

// DeclaresSlot reports whether index is inside the declared slot range.
func (d *Document) DeclaresSlot(index int) bool {
	return index >= 0 && index < d.AdditionalDocsCount
}

// DocumentView is the read projection returned to callers: the document plus
// derived state that must never be persisted.
type DocumentView struct {
	Document Document             `json:"document"`
	Slots    []*SupplementaryFile `json:"slots,omitempty"`
	// Complete is true once the document is acknowledged and every required
	// slot is verified correct.
	Complete bool `json:"complete"`
}

// StatusHistoryEntry is one append-only record of a status transition.
// Entries are never updated or deleted.
type StatusHistoryEntry struct {
	DocumentID id.DocumentID `json:"document_id"`
	// FromStatus is nil for the entry recording document creation.
	FromStatus *Status   `json:"from_status,omitempty"`
	ToStatus   Status    `json:"to_status"`
	ActorID    id.UserID `json:"actor_id"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
