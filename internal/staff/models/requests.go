package models

import (
	"strings"

	"stocktrail/internal/staff/pin"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

type CreateStaffRequest struct {
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	PIN      string `json:"pin"`
	BranchID string `json:"branch_id,omitempty"`
}

func (r *CreateStaffRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Role = Role(strings.ToLower(strings.TrimSpace(string(r.Role))))
	r.PIN = strings.TrimSpace(r.PIN)
	r.BranchID = strings.TrimSpace(r.BranchID)
	if r.Role == "" {
		r.Role = RoleStaff
	}
}

func (r *CreateStaffRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !r.Role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "role must be admin, manager or staff")
	}
	if err := pin.Validate(r.PIN); err != nil {
		return err
	}
	if r.BranchID != "" {
		if _, err := id.ParseBranchID(r.BranchID); err != nil {
			return err
		}
	}
	return nil
}

// Branch returns the parsed branch assignment, nil when unassigned.
func (r *CreateStaffRequest) Branch() *id.BranchID {
	return optionalBranch(r.BranchID)
}

// UpdateProfileRequest changes profile fields only. An empty BranchID clears the
// assignment; a nil one leaves it unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	BranchID *string `json:"branch_id,omitempty"`
}

func (r *UpdateProfileRequest) Normalize() {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Role != nil {
		*r.Role = Role(strings.ToLower(strings.TrimSpace(string(*r.Role))))
	}
	if r.BranchID != nil {
		*r.BranchID = strings.TrimSpace(*r.BranchID)
	}
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
	}
	if r.Role != nil && !r.Role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "role must be admin, manager or staff")
	}
	if r.BranchID != nil && *r.BranchID != "" {
		if _, err := id.ParseBranchID(*r.BranchID); err != nil {
			return err
		}
	}
	return nil
}

// NewBranch returns the requested assignment and whether the request changes it.
func (r *UpdateProfileRequest) NewBranch() (*id.BranchID, bool) {
	if r.BranchID == nil {
		return nil, false
	}
	return optionalBranch(*r.BranchID), true
}

type RotatePINRequest struct {
	PIN string `json:"pin"`
}

func (r *RotatePINRequest) Normalize() { r.PIN = strings.TrimSpace(r.PIN) }

func (r *RotatePINRequest) Validate() error { return pin.Validate(r.PIN) }

// AuthenticateRequest authenticates by PIN, optionally scoped to one staff id.
type AuthenticateRequest struct {
	StaffID string `json:"staff_id,omitempty"`
	PIN     string `json:"pin"`
}

func (r *AuthenticateRequest) Normalize() {
	r.StaffID = strings.TrimSpace(r.StaffID)
	r.PIN = strings.TrimSpace(r.PIN)
}

func (r *AuthenticateRequest) Validate() error {
	if r.PIN == "" {
		return dErrors.New(dErrors.CodeValidation, "pin is required")
	}
	if r.StaffID != "" {
		if _, err := id.ParseStaffID(r.StaffID); err != nil {
			return err
		}
	}
	return nil
}

func optionalBranch(raw string) *id.BranchID {
	if raw == "" {
		return nil
	}
	branchID, err := id.ParseBranchID(raw)
	if err != nil {
		return nil
	}
	return &branchID
}
