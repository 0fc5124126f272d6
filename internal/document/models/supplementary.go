package models

import (
	"strings"
	"time"

	id "docroute/pkg/domain"
	dErrors "docroute/pkg/domain-errors"
)

// Verification is the tri-state recording whether a reviewer has checked a
// supplementary attachment.
type Verification string

const (
	VerificationUnset Verification = "unset"
	// VerificationCorrect is terminal: there is no path back out of it.
	VerificationCorrect   Verification = "correct"
	VerificationIncorrect Verification = "incorrect"
)

// SupplementaryFile is one attachment answering one required slot.
//
// Invariants:
//   - SlotIndex is unique within a document
//   - an incorrect verification carries a non-empty comment
//   - once Verification is correct the file cannot be re-uploaded and the
//     verification cannot change
type SupplementaryFile struct {
	DocumentID          id.DocumentID `json:"document_id"`
	SlotIndex           int           `json:"slot_index"`
	Name                string        `json:"name"`
	StorageKey          string        `json:"storage_key"`
	SizeBytes           int64         `json:"size_bytes"`
	UploaderID          id.UserID     `json:"uploader_id"`
	Verification        Verification  `json:"verification"`
	VerifierID          id.UserID     `json:"verifier_id,omitempty"`
	VerificationComment string        `json:"verification_comment,omitempty"`
	UploadedAt          time.Time     `json:"uploaded_at"`
	VerifiedAt          time.Time     `json:"verified_at,omitempty"`
}

// CanReupload checks whether the slot accepts a new file.
func (f *SupplementaryFile) CanReupload() error {
	if f.Verification == VerificationCorrect {
		return dErrors.New(dErrors.CodeConflict, "slot is verified correct and cannot be re-uploaded")
	}
	return nil
}

// ApplyUpload replaces the slot's file. A previous incorrect verification is
// reset to unset so the replacement gets a fresh review.
func (f *SupplementaryFile) ApplyUpload(name, storageKey string, sizeBytes int64, uploader id.UserID, now time.Time) {
	f.Name = name
	f.StorageKey = storageKey
	f.SizeBytes = sizeBytes
	f.UploaderID = uploader
	f.UploadedAt = now
	f.Verification = VerificationUnset
	f.VerifierID = id.UserID{}
	f.VerificationComment = ""
	f.VerifiedAt = time.Time{}
}

// CanVerify checks whether the slot's tri-state may change.
func (f *SupplementaryFile) CanVerify() error {
	if f.Verification == VerificationCorrect {
		return dErrors.New(dErrors.CodeConflict, "slot is already verified correct")
	}
	return nil
}

// ApplyVerification records the verifier's decision. An incorrect verdict
// requires a non-blank comment explaining what to fix.
func (f *SupplementaryFile) ApplyVerification(correct bool, comment string, verifier id.UserID, now time.Time) error {
	if err := f.CanVerify(); err != nil {
		return err
	}
	comment = strings.TrimSpace(comment)
	if !correct && comment == "" {
		return dErrors.New(dErrors.CodeCommentRequired, "marking a slot incorrect requires a comment")
	}
	if correct {
		f.Verification = VerificationCorrect
	} else {
		f.Verification = VerificationIncorrect
	}
	f.VerifierID = verifier
	f.VerificationComment = comment
	f.VerifiedAt = now
	return nil
}
