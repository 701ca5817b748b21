package store

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suhailullakhan1/FruitMandi/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every statement sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Merchant{},
		&model.Fruit{},
		&model.WeightEntry{},
		&model.Bill{},
		&model.BillItem{},
	))

	return New(db)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedUser(t *testing.T, s *Store, role string) *model.User {
	t.Helper()
	user := &model.User{Phone: "+91" + role, Role: role, Name: role + " user", IsActive: true}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedMerchant(t *testing.T, s *Store, code string) *model.Merchant {
	t.Helper()
	merchant := &model.Merchant{
		MerchantCode:   code,
		Name:           "Merchant " + code,
		Phone:          "+91000" + code,
		CommissionRate: dec(t, "5.00"),
		IsActive:       true,
	}
	require.NoError(t, s.CreateMerchant(context.Background(), merchant))
	return merchant
}

func seedFruit(t *testing.T, s *Store, name, rate string) *model.Fruit {
	t.Helper()
	fruit := &model.Fruit{Name: name, CurrentRate: dec(t, rate), Unit: "kg", IsActive: true}
	require.NoError(t, s.CreateFruit(context.Background(), fruit))
	return fruit
}

func TestUserLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, model.RoleCompany)

	found, err := s.GetUserByPhone(ctx, user.Phone)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = s.GetUserByPhone(ctx, "+0000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserWithMerchant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &model.User{Phone: "+911111", Role: model.RoleMerchant, Name: "Ravi", IsActive: true}
	profile := &model.Merchant{MerchantCode: "M111111", Name: "Ravi", Phone: "+911111", IsActive: true}
	require.NoError(t, s.CreateUserWithMerchant(ctx, user, profile))

	require.NotNil(t, profile.UserID)
	assert.Equal(t, user.ID, *profile.UserID)

	found, err := s.GetUserByPhone(ctx, "+911111")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestCreateUserWithMerchantRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMerchant(t, s, "M222222")

	// The duplicate merchant code fails the profile insert; the user row must
	// roll back with it.
	user := &model.User{Phone: "+912222", Role: model.RoleMerchant, Name: "Asha", IsActive: true}
	profile := &model.Merchant{MerchantCode: "M222222", Name: "Asha", Phone: "+912222", IsActive: true}
	require.Error(t, s.CreateUserWithMerchant(ctx, user, profile))

	_, err := s.GetUserByPhone(ctx, "+912222")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMerchantCodeExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMerchant(t, s, "M000001")

	exists, err := s.MerchantCodeExists(ctx, "M000001")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.MerchantCodeExists(ctx, "M999999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListMerchantsExcludesInactive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMerchant(t, s, "M000001")
	inactive := &model.Merchant{
		MerchantCode: "M000002", Name: "Gone", Phone: "+910002",
		CommissionRate: dec(t, "5.00"), IsActive: false,
	}
	require.NoError(t, s.CreateMerchant(ctx, inactive))

	merchants, err := s.ListMerchants(ctx)
	require.NoError(t, err)
	require.Len(t, merchants, 1)
	assert.Equal(t, "M000001", merchants[0].MerchantCode)
}

func TestUpdateFruitRateDoesNotTouchSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, model.RoleWriter)
	merchant := seedMerchant(t, s, "M000001")
	fruit := seedFruit(t, s, "Mango", "50.00")

	entry := &model.WeightEntry{
		MerchantID:  merchant.ID,
		FruitID:     fruit.ID,
		EntryType:   model.EntryTypeSingle,
		Weight:      dec(t, "100.000"),
		Rate:        dec(t, "50.00"),
		TotalAmount: dec(t, "5000.00"),
		RecordedBy:  user.ID,
	}
	require.NoError(t, s.CreateWeightEntry(ctx, entry))

	updated, err := s.UpdateFruitRate(ctx, fruit.ID, dec(t, "75.00"))
	require.NoError(t, err)
	assert.Equal(t, "75.00", updated.CurrentRate.StringFixed(2))

	fruits, err := s.ListFruits(ctx)
	require.NoError(t, err)
	require.Len(t, fruits, 1)
	assert.Equal(t, "75.00", fruits[0].CurrentRate.StringFixed(2))

	entries, err := s.ListWeightEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "50.00", entries[0].Rate.StringFixed(2), "stored rate snapshot must not change")
	assert.Equal(t, "5000.00", entries[0].TotalAmount.StringFixed(2))
}

func TestUpdateFruitRateNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateFruitRate(context.Background(), "00000000-0000-0000-0000-000000000000", dec(t, "10.00"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListWeightEntriesHydratesRelations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, model.RoleWriter)
	merchant := seedMerchant(t, s, "M000001")
	fruit := seedFruit(t, s, "Apple", "80.00")

	crates := 3
	avg := dec(t, "20.500")
	entry := &model.WeightEntry{
		MerchantID:            merchant.ID,
		FruitID:               fruit.ID,
		EntryType:             model.EntryTypeMultiple,
		Weight:                dec(t, "61.500"),
		NumberOfCrates:        &crates,
		AverageWeightPerCrate: &avg,
		Rate:                  dec(t, "40.00"),
		TotalAmount:           dec(t, "2460.00"),
		RecordedBy:            user.ID,
	}
	require.NoError(t, s.CreateWeightEntry(ctx, entry))

	entries, err := s.ListWeightEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	require.NotNil(t, got.Merchant)
	assert.Equal(t, merchant.MerchantCode, got.Merchant.MerchantCode)
	require.NotNil(t, got.Fruit)
	assert.Equal(t, "Apple", got.Fruit.Name)
	require.NotNil(t, got.Recorder)
	assert.Equal(t, user.ID, got.Recorder.ID)
	require.NotNil(t, got.NumberOfCrates)
	assert.Equal(t, 3, *got.NumberOfCrates)
}

func newBill(merchantID, userID, number string, t *testing.T) *model.Bill {
	t.Helper()
	return &model.Bill{
		BillNumber:          number,
		MerchantID:          merchantID,
		Subtotal:            dec(t, "900.00"),
		TransportDeduction:  dec(t, "50.00"),
		CommissionDeduction: dec(t, "45.00"),
		OtherDeduction:      dec(t, "0.00"),
		NetAmount:           dec(t, "805.00"),
		Status:              model.BillStatusPending,
		CreatedBy:           userID,
		DueDate:             time.Now().AddDate(0, 0, 15),
	}
}

func TestCreateBillPersistsHeaderAndItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, model.RoleCompany)
	merchant := seedMerchant(t, s, "M000001")
	mango := seedFruit(t, s, "Mango", "50.00")
	apple := seedFruit(t, s, "Apple", "80.00")

	bill := newBill(merchant.ID, user.ID, "BILL-1", t)
	items := []model.BillItem{
		{FruitID: mango.ID, Weight: dec(t, "10.000"), Rate: dec(t, "50.00"), Amount: dec(t, "500.00")},
		{FruitID: apple.ID, Weight: dec(t, "5.000"), Rate: dec(t, "80.00"), Amount: dec(t, "400.00")},
	}
	require.NoError(t, s.CreateBill(ctx, bill, items))

	got, err := s.GetBillByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "BILL-1", got.BillNumber)
	assert.Equal(t, "900.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "805.00", got.NetAmount.StringFixed(2))
	assert.Equal(t, model.BillStatusPending, got.Status)
	require.Len(t, got.Items, 2)

	sum := decimal.Zero
	for _, item := range got.Items {
		sum = sum.Add(item.Amount)
	}
	assert.True(t, got.Subtotal.Equal(sum), "subtotal should equal the item sum")

	// Fetching again returns the identical stored totals.
	again, err := s.GetBillByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(again.Subtotal))
	assert.True(t, got.NetAmount.Equal(again.NetAmount))
	assert.Len(t, again.Items, len(got.Items))
}

func TestCreateBillRollsBackOnItemFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, model.RoleCompany)
	merchant := seedMerchant(t, s, "M000001")
	fruit := seedFruit(t, s, "Mango", "50.00")

	bill := newBill(merchant.ID, user.ID, "BILL-2", t)
	// Duplicate primary keys force the second item insert to fail.
	items := []model.BillItem{
		{ID: "dup", FruitID: fruit.ID, Weight: dec(t, "1.000"), Rate: dec(t, "50.00"), Amount: dec(t, "50.00")},
		{ID: "dup", FruitID: fruit.ID, Weight: dec(t, "2.000"), Rate: dec(t, "50.00"), Amount: dec(t, "100.00")},
	}
	require.Error(t, s.CreateBill(ctx, bill, items))

	bills, err := s.ListBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills, "failed item insert must roll back the bill header")
}

func TestBillNumberExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, model.RoleCompany)
	merchant := seedMerchant(t, s, "M000001")
	require.NoError(t, s.CreateBill(ctx, newBill(merchant.ID, user.ID, "BILL-3", t), nil))

	exists, err := s.BillNumberExists(ctx, "BILL-3")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.BillNumberExists(ctx, "BILL-404")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateBillStatusTransitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, model.RoleCompany)
	merchant := seedMerchant(t, s, "M000001")

	bill := newBill(merchant.ID, user.ID, "BILL-4", t)
	require.NoError(t, s.CreateBill(ctx, bill, nil))

	updated, err := s.UpdateBillStatus(ctx, bill.ID, model.BillStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusCompleted, updated.Status)

	// Completed is terminal.
	_, err = s.UpdateBillStatus(ctx, bill.ID, model.BillStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.UpdateBillStatus(ctx, "00000000-0000-0000-0000-000000000000", model.BillStatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboardStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	user := seedUser(t, s, model.RoleCompany)
	merchant := seedMerchant(t, s, "M000001")
	fruit := seedFruit(t, s, "Mango", "50.00")

	entry := &model.WeightEntry{
		MerchantID:  merchant.ID,
		FruitID:     fruit.ID,
		EntryType:   model.EntryTypeSingle,
		Weight:      dec(t, "100.000"),
		Rate:        dec(t, "50.00"),
		TotalAmount: dec(t, "5000.00"),
		RecordedBy:  user.ID,
	}
	require.NoError(t, s.CreateWeightEntry(ctx, entry))

	completed := newBill(merchant.ID, user.ID, "BILL-5", t)
	require.NoError(t, s.CreateBill(ctx, completed, nil))
	_, err := s.UpdateBillStatus(ctx, completed.ID, model.BillStatusCompleted)
	require.NoError(t, err)

	// Pending bills do not count toward revenue.
	require.NoError(t, s.CreateBill(ctx, newBill(merchant.ID, user.ID, "BILL-6", t), nil))

	stats, err := s.GetDashboardStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.MerchantCount)
	assert.Equal(t, int64(1), stats.TransactionCount)
	assert.Equal(t, "805.00", stats.TodayRevenue.StringFixed(2))
	assert.Equal(t, "100.000", stats.TotalWeight.StringFixed(3))
}

func TestDashboardStatsEmpty(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.GetDashboardStats(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.MerchantCount)
	assert.Equal(t, int64(0), stats.TransactionCount)
	assert.True(t, stats.TodayRevenue.IsZero())
	assert.True(t, stats.TotalWeight.IsZero())
}
