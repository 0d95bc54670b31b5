package models

import (
	"strings"

	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

const maxNotesLength = 1000

// InitiateRequest asks to move Quantity units of a product between branches.
type InitiateRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	FromBranch  string `json:"from_branch"`
	ToBranch    string `json:"to_branch"`
	RequestedBy string `json:"requested_by"`
	PIN         string `json:"pin"`
	Notes       string `json:"notes,omitempty"`
}

func (r *InitiateRequest) Normalize() {
	r.ProductID = strings.TrimSpace(r.ProductID)
	r.FromBranch = strings.TrimSpace(r.FromBranch)
	r.ToBranch = strings.TrimSpace(r.ToBranch)
	r.RequestedBy = strings.TrimSpace(r.RequestedBy)
	r.PIN = strings.TrimSpace(r.PIN)
	r.Notes = strings.TrimSpace(r.Notes)
}

// Validate rejects requests that could never succeed, before any store is touched.
func (r *InitiateRequest) Validate() error {
	if _, err := r.Parse(); err != nil {
		return err
	}
	return nil
}

// Initiate is the parsed form of InitiateRequest.
type Initiate struct {
	ProductID   id.ProductID
	Quantity    int
	FromBranch  id.BranchID
	ToBranch    id.BranchID
	RequestedBy id.StaffID
	PIN         string
	Notes       string
}

func (r *InitiateRequest) Parse() (*Initiate, error) {
	productID, err := id.ParseProductID(r.ProductID)
	if err != nil {
		return nil, err
	}
	from, err := id.ParseBranchID(r.FromBranch)
	if err != nil {
		return nil, err
	}
	to, err := id.ParseBranchID(r.ToBranch)
	if err != nil {
		return nil, err
	}
	requestedBy, err := id.ParseStaffID(r.RequestedBy)
	if err != nil {
		return nil, err
	}
	cmd := &Initiate{
		ProductID:   productID,
		Quantity:    r.Quantity,
		FromBranch:  from,
		ToBranch:    to,
		RequestedBy: requestedBy,
		PIN:         r.PIN,
		Notes:       r.Notes,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *Initiate) Validate() error {
	if c.FromBranch == c.ToBranch {
		return dErrors.New(dErrors.CodeValidation, "origin and destination branch must differ")
	}
	if c.Quantity <= 0 {
		return dErrors.New(dErrors.CodeValidation, "quantity must be positive")
	}
	if c.PIN == "" {
		return dErrors.New(dErrors.CodeValidation, "pin is required")
	}
	if len(c.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes are too long")
	}
	return nil
}

// ActorRequest identifies the staff member receiving or cancelling a slip.
type ActorRequest struct {
	StaffID string `json:"staff_id"`
	PIN     string `json:"pin"`
}

func (r *ActorRequest) Normalize() {
	r.StaffID = strings.TrimSpace(r.StaffID)
	r.PIN = strings.TrimSpace(r.PIN)
}

func (r *ActorRequest) Validate() error {
	if _, err := id.ParseStaffID(r.StaffID); err != nil {
		return err
	}
	if r.PIN == "" {
		return dErrors.New(dErrors.CodeValidation, "pin is required")
	}
	return nil
}

// Actor is the parsed form of ActorRequest.
type Actor struct {
	StaffID id.StaffID
	PIN     string
}

func (r *ActorRequest) Parse() (Actor, error) {
	staffID, err := id.ParseStaffID(r.StaffID)
	if err != nil {
		return Actor{}, err
	}
	return Actor{StaffID: staffID, PIN: r.PIN}, nil
}

// ScanRequest carries a payload read off a printed slip.
type ScanRequest struct {
	Payload string `json:"payload"`
}

func (r *ScanRequest) Normalize() { r.Payload = strings.TrimSpace(r.Payload) }

func (r *ScanRequest) Validate() error {
	if r.Payload == "" {
		return dErrors.New(dErrors.CodeValidation, "payload is required")
	}
	return nil
}
