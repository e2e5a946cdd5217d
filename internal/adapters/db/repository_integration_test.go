//go:build integration
// +build integration

package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ammerola/franchise-reconcile/internal/adapters/db"
	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/test/helpers"
)

type RepositorySuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	snapshots *db.SnapshotRepository
	bills     *db.BillRepository
	ctx       context.Context
}

func (s *RepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.snapshots = db.NewSnapshotRepository(s.testDB.Database, helpers.TestLogger())
	s.bills = db.NewBillRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *RepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *RepositorySuite) TestLoadSnapshot() {
	seeded := helpers.CreateTestSnapshot(3)
	helpers.SeedSnapshot(s.T(), s.testDB.PgxPool, 1, seeded)

	snapshot, err := s.snapshots.LoadSnapshot(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(snapshot, 3)

	item, ok := snapshot.Lookup("CODE0002")
	s.Require().True(ok)
	s.Equal(int64(101), item.ProductVariantID)
	s.Require().NotNil(item.Product)
	s.Equal(float64(200), item.Product.Price)
	s.Equal(float64(500), item.Product.FranchisePrice)
	s.Equal(float64(700), item.Product.VIPFranchisePrice)
}

func (s *RepositorySuite) TestLoadSnapshot_OtherLocationIsEmpty() {
	helpers.SeedSnapshot(s.T(), s.testDB.PgxPool, 1, helpers.CreateTestSnapshot(2))

	snapshot, err := s.snapshots.LoadSnapshot(s.ctx, 2)
	s.NoError(err)
	s.Empty(snapshot)
}

func (s *RepositorySuite) TestLoadSnapshot_VariantWithoutProduct() {
	item := helpers.CreateTestInventoryItem(func(i *domain.InventoryItem) {
		i.Product = nil
	})
	helpers.SeedSnapshot(s.T(), s.testDB.PgxPool, 1, domain.Snapshot{*item})

	snapshot, err := s.snapshots.LoadSnapshot(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(snapshot, 1)
	s.Nil(snapshot[0].Product)
	s.Equal("ABC123", snapshot[0].QRCode)
}

func (s *RepositorySuite) TestFindFranchise() {
	vip := helpers.CreateTestFranchise(domain.FranchiseVIP)
	helpers.SeedFranchise(s.T(), s.testDB.PgxPool, vip)

	found, err := s.snapshots.FindFranchise(s.ctx, vip.ID)
	s.Require().NoError(err)
	s.Equal(domain.FranchiseVIP, found.FranchiseType)

	_, err = s.snapshots.FindFranchise(s.ctx, 999)
	s.ErrorIs(err, domain.ErrFranchiseNotFound)
}

func (s *RepositorySuite) TestFindBill_KeepsRowOrder() {
	helpers.SeedSnapshot(s.T(), s.testDB.PgxPool, 1, helpers.CreateTestSnapshot(3))
	helpers.SeedBill(s.T(), s.testDB.PgxPool, helpers.CreateTestBill(7, domain.BillExit,
		domain.LineItem{ProductVariantID: 102, Quantity: 1, Price: 500},
		domain.LineItem{ProductVariantID: 100, Quantity: 2, Price: 1000, QRCode: "CODE0001"},
	))

	bill, err := s.bills.FindBill(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(domain.BillExit, bill.Direction)
	s.Nil(bill.FranchiseID)
	s.Require().Len(bill.Items, 2)
	s.Equal(int64(102), bill.Items[0].ProductVariantID)
	s.Equal(int64(100), bill.Items[1].ProductVariantID)
	s.Equal(float64(1000), bill.Items[1].Price)
	s.Require().NotNil(bill.Items[0].Product)
	s.Equal(float64(500), bill.Items[0].Product.FranchisePrice)
}

func (s *RepositorySuite) TestFindBill_NotFound() {
	_, err := s.bills.FindBill(s.ctx, 404)
	s.ErrorIs(err, domain.ErrBillNotFound)
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(RepositorySuite))
}
