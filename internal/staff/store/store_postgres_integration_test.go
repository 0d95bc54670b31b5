//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	branchModels "stocktrail/internal/branch/models"
	branchStore "stocktrail/internal/branch/store"
	"stocktrail/internal/staff/models"
	"stocktrail/internal/staff/store"
	id "stocktrail/pkg/domain"
	"stocktrail/pkg/platform/sentinel"
	"stocktrail/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	branches *branchStore.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.branches = branchStore.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"location_log", "transfer_slips", "products", "staff", "branches"))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	b, err := branchModels.NewBranch(id.NewBranchID(), "Main", branchModels.Address{}, now)
	s.Require().NoError(err)
	s.Require().NoError(s.branches.Create(ctx, b))

	m, err := models.NewStaff(id.NewStaffID(), "Ivy", models.RoleManager, "digest", &b.ID, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, m))

	found, err := s.store.FindByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(models.RoleManager, found.Role)
	s.Equal("digest", found.PinHash)
	s.Require().NotNil(found.BranchID)
	s.Equal(b.ID, *found.BranchID)

	byBranch, err := s.store.FindActiveByBranch(ctx, b.ID)
	s.Require().NoError(err)
	s.Len(byBranch, 1)

	s.Require().NoError(found.SoftDelete(now))
	s.Require().NoError(s.store.Update(ctx, found))

	active, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Empty(active)

	byIDs, err := s.store.FindByIDs(ctx, []id.StaffID{m.ID})
	s.Require().NoError(err)
	s.Contains(byIDs, m.ID)
}

func (s *PostgresStoreSuite) TestNotFound() {
	_, err := s.store.FindByID(context.Background(), id.NewStaffID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
