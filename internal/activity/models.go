// Package activity records the document activity trail: who did what to
// which document, when. Recording is fire-and-forget; a lost activity entry
// never fails the operation that produced it.
package activity

import (
	"time"

	id "docroute/pkg/domain"
)

// Action names a recorded operation.
type Action string

const (
	ActionDocumentCreated Action = "document.created"
	ActionStatusChanged   Action = "document.status_changed"
	ActionSlotUploaded    Action = "document.slot_uploaded"
	ActionSlotVerified    Action = "document.slot_verified"
	ActionBranchChanged   Action = "document.branch_changed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time     `json:"timestamp"`
	DocumentID id.DocumentID `json:"document_id"`
	ActorID    id.UserID     `json:"actor_id"`
	BranchCode id.BranchCode `json:"branch_code"`
	Action     Action        `json:"action"`

	// FromStatus and ToStatus are set for status changes, empty otherwise.
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	// SlotIndex is set for slot uploads and verifications, nil otherwise.
	SlotIndex *int   `json:"slot_index,omitempty"`
	Comment   string `json:"comment,omitempty"`
}
