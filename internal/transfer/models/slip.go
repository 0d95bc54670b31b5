package models

import (
	"time"

	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

type Status string

const (
	StatusInTransit Status = "in_transit"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusInTransit, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Slip records one stock movement request.
//
// Invariants:
//   - FromBranch != ToBranch
//   - Quantity > 0 and never changes after creation
//   - Status moves forward only: in_transit -> completed | cancelled
//   - ReceivedBy/ReceivedAt are set exactly when Status is completed
type Slip struct {
	ID          id.SlipID    `json:"id"`
	HumanID     string       `json:"human_id"`
	ProductID   id.ProductID `json:"product_id"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	FromBranch  id.BranchID  `json:"from_branch"`
	ToBranch    id.BranchID  `json:"to_branch"`
	RequestedBy id.StaffID   `json:"requested_by"`
	RequestedAt time.Time    `json:"requested_at"`
	Status      Status       `json:"status"`
	Notes       string       `json:"notes,omitempty"`
	QRPayload   string       `json:"qr_payload"`
	ReceivedBy  *id.StaffID  `json:"received_by,omitempty"`
	ReceivedAt  *time.Time   `json:"received_at,omitempty"`
	CancelledBy *id.StaffID  `json:"cancelled_by,omitempty"`
	CancelledAt *time.Time   `json:"cancelled_at,omitempty"`
}

// NewSlip builds an in-transit slip. The product name is a snapshot so the
// slip stays readable if the product is renamed or removed.
func NewSlip(
	slipID id.SlipID,
	humanID string,
	productID id.ProductID,
	productName string,
	quantity int,
	from, to id.BranchID,
	requestedBy id.StaffID,
	notes string,
	now time.Time,
) (*Slip, error) {
	if quantity <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "quantity must be positive")
	}
	if from == to {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "origin and destination must differ")
	}
	if humanID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "human id cannot be empty")
	}
	payload, err := EncodeQRPayload(slipID, humanID)
	if err != nil {
		return nil, err
	}
	return &Slip{
		ID:          slipID,
		HumanID:     humanID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		FromBranch:  from,
		ToBranch:    to,
		RequestedBy: requestedBy,
		RequestedAt: now,
		Status:      StatusInTransit,
		Notes:       notes,
		QRPayload:   payload,
	}, nil
}

// ensureInTransit maps terminal states to their cause-specific conflict.
func (s *Slip) ensureInTransit() error {
	switch s.Status {
	case StatusInTransit:
		return nil
	case StatusCompleted:
		return dErrors.New(dErrors.CodeTransferCompleted, "transfer already completed")
	case StatusCancelled:
		return dErrors.New(dErrors.CodeTransferCancelled, "transfer already cancelled")
	default:
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown transfer status")
	}
}

// CheckOpen reports whether the slip can still be received or cancelled.
func (s *Slip) CheckOpen() error {
	return s.ensureInTransit()
}

func (s *Slip) Complete(by id.StaffID, at time.Time) error {
	if err := s.ensureInTransit(); err != nil {
		return err
	}
	s.Status = StatusCompleted
	s.ReceivedBy = &by
	s.ReceivedAt = &at
	return nil
}

func (s *Slip) Cancel(by id.StaffID, at time.Time) error {
	if err := s.ensureInTransit(); err != nil {
		return err
	}
	s.Status = StatusCancelled
	s.CancelledBy = &by
	s.CancelledAt = &at
	return nil
}

// Filter selects slips. Nil fields match everything.
type Filter struct {
	Status     *Status
	FromBranch *id.BranchID
	ToBranch   *id.BranchID
	ProductID  *id.ProductID
}

func (f Filter) Matches(s *Slip) bool {
	if f.Status != nil && s.Status != *f.Status {
		return false
	}
	if f.FromBranch != nil && s.FromBranch != *f.FromBranch {
		return false
	}
	if f.ToBranch != nil && s.ToBranch != *f.ToBranch {
		return false
	}
	if f.ProductID != nil && s.ProductID != *f.ProductID {
		return false
	}
	return true
}

// EnrichedSlip carries resolved display names alongside the slip.
type EnrichedSlip struct {
	Slip
	RequestedByName string `json:"requested_by_name"`
	ReceivedByName  string `json:"received_by_name,omitempty"`
	CancelledByName string `json:"cancelled_by_name,omitempty"`
	FromBranchName  string `json:"from_branch_name"`
	ToBranchName    string `json:"to_branch_name"`
}

// InitiateResult is the created slip plus its rendered QR image.
type InitiateResult struct {
	Slip   *Slip  `json:"slip"`
	QRCode string `json:"qr_code,omitempty"`
}
