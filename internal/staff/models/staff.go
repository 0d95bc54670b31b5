package models

import (
	"strings"
	"time"

	"stocktrail/internal/staff/pin"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Staff is an operational user identified by PIN rather than a full account.
//
// Invariants:
//   - Name is non-empty
//   - Role is admin, manager or staff
//   - PinHash is only changed through SetPIN, never by profile updates
//   - Deletion is soft and permanent
type Staff struct {
	ID        id.StaffID   `json:"id"`
	Name      string       `json:"name"`
	Role      Role         `json:"role"`
	PinHash   string       `json:"-"` // never serialize the digest
	BranchID  *id.BranchID `json:"branch_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	DeletedAt *time.Time   `json:"deleted_at,omitempty"`
}

func NewStaff(staffID id.StaffID, name string, role Role, pinHash string, branchID *id.BranchID, now time.Time) (*Staff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "staff name cannot be empty")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid staff role")
	}
	if pinHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "pin hash cannot be empty")
	}
	return &Staff{
		ID:        staffID,
		Name:      name,
		Role:      role,
		PinHash:   pinHash,
		BranchID:  branchID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Staff) IsActive() bool {
	return s.DeletedAt == nil
}

// AssignedTo reports whether the staff member belongs to branchID.
func (s *Staff) AssignedTo(branchID id.BranchID) bool {
	return s.BranchID != nil && *s.BranchID == branchID
}

// NeedsPINRotation is true for records still carrying an imported unsalted digest.
func (s *Staff) NeedsPINRotation() bool {
	return pin.IsLegacy(s.PinHash)
}

func (s *Staff) SetPIN(pinHash string, now time.Time) {
	s.PinHash = pinHash
	s.UpdatedAt = now
}

func (s *Staff) SoftDelete(now time.Time) error {
	if !s.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "staff is already deleted")
	}
	s.DeletedAt = &now
	s.UpdatedAt = now
	return nil
}

// View is the externally-facing projection of a staff record.
type View struct {
	ID               id.StaffID   `json:"id"`
	Name             string       `json:"name"`
	Role             Role         `json:"role"`
	BranchID         *id.BranchID `json:"branch_id,omitempty"`
	Active           bool         `json:"is_active"`
	NeedsPINRotation bool         `json:"needs_pin_rotation"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (s *Staff) ToView() View {
	return View{
		ID:               s.ID,
		Name:             s.Name,
		Role:             s.Role,
		BranchID:         s.BranchID,
		Active:           s.IsActive(),
		NeedsPINRotation: s.NeedsPINRotation(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
