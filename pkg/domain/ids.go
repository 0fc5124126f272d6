// Package domain defines the typed identifiers shared across the service.
//
// IDs are distinct named types over uuid.UUID so a DocumentID can never be
// passed where a UserID is expected; the compiler enforces it. Parse
// functions validate at trust boundaries (HTTP path params, JWT claims) and
// reject empty, malformed, and nil UUIDs.
package domain

import (
	"strconv"

	"github.com/google/uuid"

	dErrors "docroute/pkg/domain-errors"
)

// DocumentID identifies a routed document.
type DocumentID uuid.UUID

// UserID identifies a principal.
type UserID uuid.UUID

// BranchCode identifies a regional office. Branch codes are operator-assigned
// numeric codes (e.g. 1101), not UUIDs; the first two digits carry the region.
type BranchCode int

func (d DocumentID) String() string { return uuid.UUID(d).String() }
func (d DocumentID) IsNil() bool    { return uuid.UUID(d) == uuid.Nil }

func (u UserID) String() string { return uuid.UUID(u).String() }
func (u UserID) IsNil() bool    { return uuid.UUID(u) == uuid.Nil }

func (b BranchCode) String() string { return strconv.Itoa(int(b)) }

// Text marshaling keeps IDs in their canonical string form in JSON payloads
// and cache entries; defined types do not inherit it from uuid.UUID.

func (d DocumentID) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DocumentID) UnmarshalText(b []byte) error {
	id, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*d = DocumentID(id)
	return nil
}

func (u UserID) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *UserID) UnmarshalText(b []byte) error {
	id, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*u = UserID(id)
	return nil
}

// ParseDocumentID parses and validates a document ID from its string form.
func ParseDocumentID(s string) (DocumentID, error) {
	id, err := parseUUID(s)
	if err != nil {
		return DocumentID{}, err
	}
	return DocumentID(id), nil
}

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(id), nil
}

// ParseBranchCode parses a branch code. Codes are positive integers.
func ParseBranchCode(s string) (BranchCode, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "branch code must be a positive integer")
	}
	return BranchCode(n), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return id, nil
}
