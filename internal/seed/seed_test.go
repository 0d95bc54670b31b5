package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	branchService "stocktrail/internal/branch/service"
	branchStore "stocktrail/internal/branch/store"
	productStore "stocktrail/internal/product/store"
	"stocktrail/internal/seed"
	staffService "stocktrail/internal/staff/service"
	staffStore "stocktrail/internal/staff/store"
)

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	branches := branchService.New(branchStore.NewInMemory())
	staff := staffService.New(staffStore.NewInMemory(), staffService.WithBranchLookup(branches))
	products := productStore.NewInMemory()

	demo, err := seed.SeedDemo(ctx, branches, staff, products)
	require.NoError(t, err)
	require.Len(t, demo.Branches, 2)
	require.Len(t, demo.Staff, 2)
	require.NotEmpty(t, demo.Products)

	listed, err := branches.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	member, err := staff.Authenticate(ctx, demo.Staff[1].ID, "222222")
	require.NoError(t, err)
	assert.True(t, member.AssignedTo(demo.Branches[1].ID))

	stored, err := products.FindByID(ctx, demo.Products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, demo.Branches[0].ID, *stored.CurrentBranch)
}
