package models

import (
	"time"

	id "stocktrail/pkg/domain"
)

// Reason tags why a product's location changed.
type Reason string

const (
	ReasonTransferInitiated Reason = "transfer_initiated"
	ReasonTransferComplete  Reason = "transfer_complete"
	ReasonTransferCancelled Reason = "transfer_cancelled"
)

// Entry is one append-only row of the location audit log. For
// transfer_initiated rows NewBranch records intent, not settled fact.
type Entry struct {
	ID             id.LogEntryID `json:"id"`
	ProductID      id.ProductID  `json:"product_id"`
	PreviousBranch *id.BranchID  `json:"previous_branch,omitempty"`
	NewBranch      *id.BranchID  `json:"new_branch,omitempty"`
	Quantity       int           `json:"quantity"`
	TransferSlipID *id.SlipID    `json:"transfer_slip_id,omitempty"`
	ChangedBy      id.StaffID    `json:"changed_by"`
	Reason         Reason        `json:"reason"`
	CreatedAt      time.Time     `json:"created_at"`
	// Seq orders rows with equal timestamps. Assigned by the store.
	Seq int64 `json:"-"`
}

// Filter narrows a log query. Zero values mean "any".
type Filter struct {
	ProductID      *id.ProductID
	TransferSlipID *id.SlipID
	Limit          int
}

func (f Filter) Matches(e *Entry) bool {
	if f.ProductID != nil && e.ProductID != *f.ProductID {
		return false
	}
	if f.TransferSlipID != nil && (e.TransferSlipID == nil || *e.TransferSlipID != *f.TransferSlipID) {
		return false
	}
	return true
}

// EnrichedEntry adds display names. Unresolvable references read "Unknown".
type EnrichedEntry struct {
	Entry
	ProductName        string `json:"product_name,omitempty"`
	PreviousBranchName string `json:"previous_branch_name,omitempty"`
	NewBranchName      string `json:"new_branch_name,omitempty"`
	ChangedByName      string `json:"changed_by_name"`
}

// ClearResult reports how much an administrative reset removed.
type ClearResult struct {
	EntriesDeleted int64 `json:"entries_deleted"`
	SlipsDeleted   int64 `json:"slips_deleted"`
}
