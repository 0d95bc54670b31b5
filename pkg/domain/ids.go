// Package domain holds identifier primitives shared by every module.
//
// Each entity gets its own UUID-backed type so a StaffID can never be passed
// where a BranchID is expected.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "stocktrail/pkg/domain-errors"
)

type (
	StaffID    uuid.UUID
	BranchID   uuid.UUID
	ProductID  uuid.UUID
	SlipID     uuid.UUID
	LogEntryID uuid.UUID
)

func (id StaffID) String() string    { return uuid.UUID(id).String() }
func (id BranchID) String() string   { return uuid.UUID(id).String() }
func (id ProductID) String() string  { return uuid.UUID(id).String() }
func (id SlipID) String() string     { return uuid.UUID(id).String() }
func (id LogEntryID) String() string { return uuid.UUID(id).String() }

func (id StaffID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id BranchID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id SlipID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id LogEntryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id StaffID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id BranchID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id ProductID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id SlipID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id LogEntryID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *StaffID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *BranchID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ProductID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SlipID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *LogEntryID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }

func NewStaffID() StaffID       { return StaffID(uuid.New()) }
func NewBranchID() BranchID     { return BranchID(uuid.New()) }
func NewProductID() ProductID   { return ProductID(uuid.New()) }
func NewSlipID() SlipID         { return SlipID(uuid.New()) }
func NewLogEntryID() LogEntryID { return LogEntryID(uuid.New()) }

// parseUUID enforces the trust-boundary invariant: non-empty, well-formed, non-nil.
func parseUUID(s, field string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be nil")
	}
	return parsed, nil
}

func ParseStaffID(s string) (StaffID, error) {
	u, err := parseUUID(s, "staff id")
	return StaffID(u), err
}

func ParseBranchID(s string) (BranchID, error) {
	u, err := parseUUID(s, "branch id")
	return BranchID(u), err
}

func ParseProductID(s string) (ProductID, error) {
	u, err := parseUUID(s, "product id")
	return ProductID(u), err
}

func ParseSlipID(s string) (SlipID, error) {
	u, err := parseUUID(s, "transfer id")
	return SlipID(u), err
}
