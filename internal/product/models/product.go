// Package models is the transfer-facing view of a product. Product CRUD lives
// elsewhere; only quantity and current branch are mutated here.
package models

import (
	"time"

	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

type Product struct {
	ID            id.ProductID `json:"id"`
	Name          string       `json:"name"`
	Quantity      int          `json:"quantity"`
	CurrentBranch *id.BranchID `json:"current_branch,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Update is a partial write of the two fields transfers own. Nil fields are untouched.
type Update struct {
	Quantity      *int
	CurrentBranch *id.BranchID
}

func (u Update) Validate() error {
	if u.Quantity != nil && *u.Quantity < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "product quantity cannot be negative")
	}
	return nil
}

// Apply returns a copy of p with u applied.
func (u Update) Apply(p Product, now time.Time) Product {
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.CurrentBranch != nil {
		b := *u.CurrentBranch
		p.CurrentBranch = &b
	}
	p.UpdatedAt = now
	return p
}
