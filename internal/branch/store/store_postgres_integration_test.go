//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stocktrail/internal/branch/models"
	"stocktrail/internal/branch/store"
	id "stocktrail/pkg/domain"
	"stocktrail/pkg/platform/sentinel"
	"stocktrail/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
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
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"location_log", "transfer_slips", "products", "staff", "branches"))
}

func (s *PostgresStoreSuite) newBranch(name string) *models.Branch {
	b, err := models.NewBranch(id.NewBranchID(), name, models.Address{Street: "1 Main St"}, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return b
}

func (s *PostgresStoreSuite) TestRoundTripAndSoftDelete() {
	ctx := context.Background()
	b := s.newBranch("Harbour")
	s.Require().NoError(s.store.Create(ctx, b))

	found, err := s.store.FindByID(ctx, b.ID)
	s.Require().NoError(err)
	s.Equal("Harbour", found.Name)
	s.Equal("1 Main St", found.Address)
	s.Nil(found.DeletedAt)

	s.Require().NoError(found.SoftDelete(time.Now().UTC()))
	s.Require().NoError(s.store.Update(ctx, found))

	list, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Empty(list)

	byIDs, err := s.store.FindByIDs(ctx, []id.BranchID{b.ID})
	s.Require().NoError(err)
	s.Require().Contains(byIDs, b.ID)
	s.NotNil(byIDs[b.ID].DeletedAt)
}

func (s *PostgresStoreSuite) TestNotFound() {
	ctx := context.Background()
	_, err := s.store.FindByID(ctx, id.NewBranchID())
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Update(ctx, s.newBranch("ghost")), sentinel.ErrNotFound)
}
