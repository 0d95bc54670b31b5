// Package seed fills an empty in-memory deployment with a small demo world so
// the transfer routes can be exercised without a product catalog service.
package seed

import (
	"context"
	"fmt"
	"time"

	branchModels "stocktrail/internal/branch/models"
	productModels "stocktrail/internal/product/models"
	staffModels "stocktrail/internal/staff/models"
	id "stocktrail/pkg/domain"
)

type BranchCreator interface {
	Create(ctx context.Context, req *branchModels.CreateBranchRequest) (*branchModels.Branch, error)
}

type StaffCreator interface {
	Create(ctx context.Context, req *staffModels.CreateStaffRequest) (*staffModels.Staff, error)
}

type ProductSaver interface {
	Save(ctx context.Context, p *productModels.Product) error
}

// Demo is what SeedDemo created.
type Demo struct {
	Branches []*branchModels.Branch
	Staff    []*staffModels.Staff
	Products []*productModels.Product
}

var demoBranches = []branchModels.CreateBranchRequest{
	{Name: "Main Street", Address: "1 Main St", City: "Springfield"},
	{Name: "Harbour", Address: "12 Quay Rd", City: "Springfield"},
}

// demoStaff PINs are for local use only.
var demoStaff = []struct {
	name   string
	role   staffModels.Role
	pin    string
	branch int
}{
	{"Alex Main", staffModels.RoleManager, "111111", 0},
	{"Robin Harbour", staffModels.RoleStaff, "222222", 1},
}

var demoProducts = []struct {
	name     string
	quantity int
}{
	{"Oak Side Table", 12},
	{"Linen Lampshade", 40},
	{"Cast Iron Pan", 25},
}

// SeedDemo creates two branches, one staff member per branch, and products
// resting at the first branch.
func SeedDemo(ctx context.Context, branches BranchCreator, staff StaffCreator, products ProductSaver) (*Demo, error) {
	demo := &Demo{}
	for i := range demoBranches {
		req := demoBranches[i]
		b, err := branches.Create(ctx, &req)
		if err != nil {
			return nil, fmt.Errorf("seed branch %s: %w", req.Name, err)
		}
		demo.Branches = append(demo.Branches, b)
	}
	for _, s := range demoStaff {
		req := &staffModels.CreateStaffRequest{
			Name:     s.name,
			Role:     s.role,
			PIN:      s.pin,
			BranchID: demo.Branches[s.branch].ID.String(),
		}
		m, err := staff.Create(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("seed staff %s: %w", s.name, err)
		}
		demo.Staff = append(demo.Staff, m)
	}
	home := demo.Branches[0].ID
	for _, p := range demoProducts {
		branchID := home
		product := &productModels.Product{
			ID:            id.NewProductID(),
			Name:          p.name,
			Quantity:      p.quantity,
			CurrentBranch: &branchID,
			UpdatedAt:     time.Now().UTC(),
		}
		if err := products.Save(ctx, product); err != nil {
			return nil, fmt.Errorf("seed product %s: %w", p.name, err)
		}
		demo.Products = append(demo.Products, product)
	}
	return demo, nil
}
