package models

import (
	"strings"
	"time"

	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

// Branch is a physical stock-holding location.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Deletion is soft: DeletedAt is set once and never cleared, so historical
//     slips and location rows keep resolving the branch name
type Branch struct {
	ID         id.BranchID `json:"id"`
	Name       string      `json:"name"`
	Address    string      `json:"address"`
	City       string      `json:"city"`
	PostalCode string      `json:"postal_code"`
	Phone      string      `json:"phone"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	DeletedAt  *time.Time  `json:"deleted_at,omitempty"`
}

func (b *Branch) IsActive() bool {
	return b.DeletedAt == nil
}

// SoftDelete marks the branch deleted. Deleting twice is an invariant violation.
func (b *Branch) SoftDelete(now time.Time) error {
	if !b.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "branch is already deleted")
	}
	b.DeletedAt = &now
	b.UpdatedAt = now
	return nil
}

func NewBranch(branchID id.BranchID, name string, addr Address, now time.Time) (*Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "branch name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "branch name must be 128 characters or less")
	}
	return &Branch{
		ID:         branchID,
		Name:       name,
		Address:    addr.Street,
		City:       addr.City,
		PostalCode: addr.PostalCode,
		Phone:      addr.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Address groups the optional location fields of a branch.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Phone      string
}
