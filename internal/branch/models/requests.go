package models

import (
	"strings"

	dErrors "stocktrail/pkg/domain-errors"
)

type CreateBranchRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

func (r *CreateBranchRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.PostalCode = strings.TrimSpace(r.PostalCode)
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *CreateBranchRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func (r *CreateBranchRequest) ToAddress() Address {
	return Address{Street: r.Address, City: r.City, PostalCode: r.PostalCode, Phone: r.Phone}
}

// UpdateBranchRequest carries partial updates; nil fields are left unchanged.
type UpdateBranchRequest struct {
	Name       *string `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

func (r *UpdateBranchRequest) Normalize() {
	for _, f := range []*string{r.Name, r.Address, r.City, r.PostalCode, r.Phone} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateBranchRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be empty")
	}
	if r.Name != nil && len(*r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be 128 characters or less")
	}
	return nil
}

// Apply copies the set fields onto b.
func (r *UpdateBranchRequest) Apply(b *Branch) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Address != nil {
		b.Address = *r.Address
	}
	if r.City != nil {
		b.City = *r.City
	}
	if r.PostalCode != nil {
		b.PostalCode = *r.PostalCode
	}
	if r.Phone != nil {
		b.Phone = *r.Phone
	}
}
