package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-pos/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes
	// writers the way the production sqlite setup does.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Hall{},
		&models.Table{},
		&models.Customer{},
		&models.DebtEntry{},
		&models.OrderItem{},
		&models.Sale{},
	))
	return db
}

func newTestEngine(t *testing.T, db *gorm.DB) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.StoreTimeout = 10 * time.Second
	return New(db, cfg)
}

func seedTable(t *testing.T, db *gorm.DB) models.Table {
	t.Helper()
	hall := models.Hall{Name: "Main Hall"}
	require.NoError(t, db.Create(&hall).Error)
	table := models.Table{HallID: hall.ID, Name: "Table 1", Status: models.TableStatusFree}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func seedCustomer(t *testing.T, db *gorm.DB, debt float64) models.Customer {
	t.Helper()
	customer := models.Customer{Name: "Aziz", Debt: debt}
	require.NoError(t, db.Create(&customer).Error)
	return customer
}

func reloadTable(t *testing.T, db *gorm.DB, id uint) models.Table {
	t.Helper()
	var table models.Table
	require.NoError(t, db.First(&table, id).Error)
	return table
}

func assertTableFree(t *testing.T, table models.Table) {
	t.Helper()
	assert.Equal(t, models.TableStatusFree, table.Status)
	assert.Equal(t, 0, table.Guests)
	assert.Nil(t, table.StartTime)
	assert.Zero(t, table.TotalAmount)
}

func TestAddLineKeepsTotalConsistent(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	_, err := eng.AddLine(ctx, table.ID, "Osh", 65000, 2, "1")
	require.NoError(t, err)

	got := reloadTable(t, db, table.ID)
	assert.Equal(t, models.TableStatusOccupied, got.Status)
	assert.Equal(t, float64(130000), got.TotalAmount)
	require.NotNil(t, got.StartTime)
	started := *got.StartTime

	_, err = eng.AddLine(ctx, table.ID, "Tea", 5000, 3, "2")
	require.NoError(t, err)

	got = reloadTable(t, db, table.ID)
	assert.Equal(t, float64(145000), got.TotalAmount)
	// The start timestamp is set once and never overwritten.
	require.NotNil(t, got.StartTime)
	assert.Equal(t, started.Unix(), got.StartTime.Unix())

	lines, err := eng.ListLines(ctx, table.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Osh", lines[0].ProductName)
	assert.Equal(t, "Tea", lines[1].ProductName)

	var sum float64
	for _, line := range lines {
		sum += line.Price * float64(line.Quantity)
	}
	assert.Equal(t, got.TotalAmount, sum)
}

func TestAddLineValidation(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	_, err := eng.AddLine(ctx, table.ID, "Osh", 65000, 0, "1")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = eng.AddLine(ctx, table.ID, "Osh", -1, 1, "1")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = eng.AddLine(ctx, table.ID, "", 65000, 1, "1")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = eng.AddLine(ctx, 9999, "Osh", 65000, 1, "1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Validation failures must leave no side effects.
	var lines int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&lines).Error)
	assert.Zero(t, lines)
	assertTableFree(t, reloadTable(t, db, table.ID))
}

func TestConcurrentAddLinesLoseNoIncrement(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)

	const n = 25
	const price = 1000.0

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.AddLine(context.Background(), table.ID, "Lagman", price, 1, "1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got := reloadTable(t, db, table.ID)
	assert.Equal(t, float64(n)*price, got.TotalAmount)

	lines, err := eng.ListLines(context.Background(), table.ID)
	require.NoError(t, err)
	assert.Len(t, lines, n)
}

func TestSetGuestCount(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	err := eng.SetGuestCount(ctx, table.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = eng.SetGuestCount(ctx, 9999, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, eng.SetGuestCount(ctx, table.ID, 4))
	got := reloadTable(t, db, table.ID)
	assert.Equal(t, models.TableStatusOccupied, got.Status)
	assert.Equal(t, 4, got.Guests)
	assert.NotNil(t, got.StartTime)
	assert.Zero(t, got.TotalAmount) // guest updates never touch the total

	// Overwrite only; the table stays occupied with its start time.
	require.NoError(t, eng.SetGuestCount(ctx, table.ID, 2))
	got = reloadTable(t, db, table.ID)
	assert.Equal(t, 2, got.Guests)
	assert.Equal(t, models.TableStatusOccupied, got.Status)
	assert.NotNil(t, got.StartTime)
}

func TestCloseTableDiscardsOrder(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	_, err := eng.AddLine(ctx, table.ID, "Osh", 65000, 1, "1")
	require.NoError(t, err)
	require.NoError(t, eng.SetGuestCount(ctx, table.ID, 3))

	require.NoError(t, eng.CloseTable(ctx, table.ID))

	assertTableFree(t, reloadTable(t, db, table.ID))
	lines, err := eng.ListLines(ctx, table.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Close archives nothing.
	var sales int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&sales).Error)
	assert.Zero(t, sales)

	err = eng.CloseTable(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

// No-op updates on existing rows must not read as missing rows. These are
// the cases where the UPDATE changes no column values: closing a table
// that is already free, re-sending the current guest count, and adding a
// zero-price line to an already-occupied table.
func TestNoopUpdatesAreNotMissingRows(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	// Close is unconditional; a table with no running order closes cleanly.
	require.NoError(t, eng.CloseTable(ctx, table.ID))
	assertTableFree(t, reloadTable(t, db, table.ID))

	require.NoError(t, eng.SetGuestCount(ctx, table.ID, 3))
	require.NoError(t, eng.SetGuestCount(ctx, table.ID, 3))
	assert.Equal(t, 3, reloadTable(t, db, table.ID).Guests)

	_, err := eng.AddLine(ctx, table.ID, "Bread", 0, 1, "1")
	require.NoError(t, err)

	lines, err := eng.ListLines(ctx, table.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, models.TableStatusOccupied, reloadTable(t, db, table.ID).Status)
}

func TestDebtLedgerConsistency(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	customer := seedCustomer(t, db, 0)
	ctx := context.Background()

	require.NoError(t, eng.RecordDebt(ctx, customer.ID, 100000, "dinner"))
	require.NoError(t, eng.RecordDebt(ctx, customer.ID, 50000, "lunch"))
	require.NoError(t, eng.RecordPayment(ctx, customer.ID, 30000, "cash"))

	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, float64(120000), got.Debt)

	entries, err := eng.ListHistory(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var sum float64
	for _, entry := range entries {
		if entry.Type == models.DebtEntryDebt {
			sum += entry.Amount
		} else {
			sum -= entry.Amount
		}
	}
	assert.Equal(t, got.Debt, sum)

	// Newest first.
	assert.Equal(t, models.DebtEntryPayment, entries[0].Type)
	assert.Equal(t, float64(30000), entries[0].Amount)
}

func TestPaymentScenario(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	customer := seedCustomer(t, db, 150000)
	ctx := context.Background()

	require.NoError(t, eng.RecordPayment(ctx, customer.ID, 50000, "cash"))

	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, float64(100000), got.Debt)

	entries, err := eng.ListHistory(ctx, customer.ID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, models.DebtEntryPayment, entries[0].Type)
	assert.Equal(t, float64(50000), entries[0].Amount)
}

func TestDebtValidation(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	customer := seedCustomer(t, db, 0)
	ctx := context.Background()

	assert.ErrorIs(t, eng.RecordDebt(ctx, customer.ID, 0, ""), ErrInvalidArgument)
	assert.ErrorIs(t, eng.RecordDebt(ctx, customer.ID, -5, ""), ErrInvalidArgument)
	assert.ErrorIs(t, eng.RecordPayment(ctx, customer.ID, 0, ""), ErrInvalidArgument)
	assert.ErrorIs(t, eng.RecordDebt(ctx, 9999, 1000, ""), ErrNotFound)
	assert.ErrorIs(t, eng.RecordPayment(ctx, 9999, 1000, ""), ErrNotFound)

	var entries int64
	require.NoError(t, db.Model(&models.DebtEntry{}).Count(&entries).Error)
	assert.Zero(t, entries)
}

func TestOverpaymentPolicy(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db, 10000)
	ctx := context.Background()

	strict := DefaultConfig()
	strict.AllowOverpayment = false
	eng := New(db, strict)

	err := eng.RecordPayment(ctx, customer.ID, 25000, "cash")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, float64(10000), got.Debt)

	// The permissive default treats the surplus as customer credit.
	lenient := New(db, DefaultConfig())
	require.NoError(t, lenient.RecordPayment(ctx, customer.ID, 25000, "cash"))
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, float64(-15000), got.Debt)
}

func TestListDebtors(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	debtor := seedCustomer(t, db, 5000)
	clean := models.Customer{Name: "Malika", Debt: 0}
	require.NoError(t, db.Create(&clean).Error)

	debtors, err := eng.ListDebtors(context.Background())
	require.NoError(t, err)
	require.Len(t, debtors, 1)
	assert.Equal(t, debtor.ID, debtors[0].ID)
}

func TestCheckoutCreditSale(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	customer := seedCustomer(t, db, 0)
	ctx := context.Background()

	_, err := eng.AddLine(ctx, table.ID, "Osh", 65000, 2, "1")
	require.NoError(t, err)

	lines, err := eng.ListLines(ctx, table.ID)
	require.NoError(t, err)

	sale, err := eng.Checkout(ctx, CheckoutInput{
		TableID:       table.ID,
		Subtotal:      130000,
		Discount:      0,
		Total:         130000,
		PaymentMethod: models.PaymentMethodDebt,
		CustomerID:    &customer.ID,
		Lines:         SnapshotLines(lines),
	})
	require.NoError(t, err)
	assert.NotZero(t, sale.ID)
	assert.NotEmpty(t, sale.ReceiptNo)
	assert.Equal(t, float64(130000), sale.TotalAmount)

	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, float64(130000), got.Debt)

	entries, err := eng.ListHistory(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.DebtEntryDebt, entries[0].Type)
	assert.Equal(t, float64(130000), entries[0].Amount)

	assertTableFree(t, reloadTable(t, db, table.ID))
	remaining, err := eng.ListLines(ctx, table.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	var archived models.Sale
	require.NoError(t, db.First(&archived, sale.ID).Error)
	assert.Equal(t, float64(130000), archived.TotalAmount)
	assert.Contains(t, archived.ItemsJSON, "Osh")
}

func TestCheckoutCashSaleWithoutCustomer(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	_, err := eng.AddLine(ctx, table.ID, "Osh", 65000, 2, "1")
	require.NoError(t, err)

	lines, err := eng.ListLines(ctx, table.ID)
	require.NoError(t, err)

	sale, err := eng.Checkout(ctx, CheckoutInput{
		TableID:       table.ID,
		Subtotal:      130000,
		Total:         130000,
		PaymentMethod: models.PaymentMethodCash,
		Lines:         SnapshotLines(lines),
	})
	require.NoError(t, err)
	assert.Nil(t, sale.CustomerID)

	var debtEntries int64
	require.NoError(t, db.Model(&models.DebtEntry{}).Count(&debtEntries).Error)
	assert.Zero(t, debtEntries)

	assertTableFree(t, reloadTable(t, db, table.ID))
}

func TestCheckoutValidation(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	_, err := eng.Checkout(ctx, CheckoutInput{
		TableID:       table.ID,
		Total:         100,
		PaymentMethod: "cheque",
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = eng.Checkout(ctx, CheckoutInput{
		TableID:       table.ID,
		Total:         100,
		PaymentMethod: models.PaymentMethodDebt,
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = eng.Checkout(ctx, CheckoutInput{
		TableID:       9999,
		Total:         100,
		PaymentMethod: models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Nothing may be archived by a failed checkout.
	var sales int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&sales).Error)
	assert.Zero(t, sales)
}

// TestCheckoutAtomicity drives the debt step into a failure after the sale
// has been archived inside the transaction and verifies the rollback is
// total: no sale, no debt entry, untouched table and lines.
func TestCheckoutAtomicity(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	_, err := eng.AddLine(ctx, table.ID, "Osh", 65000, 2, "1")
	require.NoError(t, err)
	before := reloadTable(t, db, table.ID)

	missing := uint(9999)
	_, err = eng.Checkout(ctx, CheckoutInput{
		TableID:       table.ID,
		Subtotal:      130000,
		Total:         130000,
		PaymentMethod: models.PaymentMethodDebt,
		CustomerID:    &missing,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	var sales, entries int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&sales).Error)
	require.NoError(t, db.Model(&models.DebtEntry{}).Count(&entries).Error)
	assert.Zero(t, sales)
	assert.Zero(t, entries)

	after := reloadTable(t, db, table.ID)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.TotalAmount, after.TotalAmount)

	lines, err := eng.ListLines(ctx, table.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

// TestCheckoutRollsBackOnStoreFailure injects a store error into the
// order-line delete step and verifies no partial state survives.
func TestCheckoutRollsBackOnStoreFailure(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	customer := seedCustomer(t, db, 0)
	ctx := context.Background()

	_, err := eng.AddLine(ctx, table.ID, "Osh", 65000, 2, "1")
	require.NoError(t, err)

	failing := errors.New("disk I/O error")
	inject := false
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("pos:test_fail_delete", func(tx *gorm.DB) {
		if inject {
			_ = tx.AddError(failing)
		}
	}))
	defer db.Callback().Delete().Remove("pos:test_fail_delete")

	inject = true
	_, err = eng.Checkout(ctx, CheckoutInput{
		TableID:       table.ID,
		Subtotal:      130000,
		Total:         130000,
		PaymentMethod: models.PaymentMethodDebt,
		CustomerID:    &customer.ID,
	})
	inject = false
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	var sales, entries int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&sales).Error)
	require.NoError(t, db.Model(&models.DebtEntry{}).Count(&entries).Error)
	assert.Zero(t, sales)
	assert.Zero(t, entries)

	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Zero(t, got.Debt)

	lines, err := eng.ListLines(ctx, table.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, models.TableStatusOccupied, reloadTable(t, db, table.ID).Status)
}

func TestQuerySales(t *testing.T) {
	db := setupTestDB(t)
	cfg := DefaultConfig()
	cfg.SalesQueryLimit = 2
	eng := New(db, cfg)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		sale := models.Sale{
			ReceiptNo:     fmt.Sprintf("R-%d", i),
			Date:          base.AddDate(0, 0, i),
			TotalAmount:   float64(1000 * (i + 1)),
			Subtotal:      float64(1000 * (i + 1)),
			PaymentMethod: models.PaymentMethodCash,
			ItemsJSON:     "[]",
		}
		require.NoError(t, db.Create(&sale).Error)
	}

	// No range: newest first, capped by the configured limit.
	recent, err := eng.QuerySales(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].Date.After(recent[1].Date))

	// Inclusive range.
	from := base
	to := base.AddDate(0, 0, 1)
	ranged, err := eng.QuerySales(ctx, &from, &to)
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}

func TestArchiveSale(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	ctx := context.Background()

	_, err := eng.ArchiveSale(ctx, models.Sale{PaymentMethod: "barter"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	sale, err := eng.ArchiveSale(ctx, models.Sale{
		TotalAmount:   5000,
		Subtotal:      5000,
		PaymentMethod: models.PaymentMethodCard,
		ItemsJSON:     "[]",
	})
	require.NoError(t, err)
	assert.NotZero(t, sale.ID)
	assert.NotEmpty(t, sale.ReceiptNo)
	assert.False(t, sale.Date.IsZero())
}

func TestDeleteTableWithOpenLines(t *testing.T) {
	db := setupTestDB(t)
	eng := newTestEngine(t, db)
	table := seedTable(t, db)
	ctx := context.Background()

	_, err := eng.AddLine(ctx, table.ID, "Osh", 65000, 1, "1")
	require.NoError(t, err)

	err = eng.DeleteTable(ctx, table.ID)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	err = eng.DeleteHall(ctx, table.HallID)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	require.NoError(t, eng.CloseTable(ctx, table.ID))
	require.NoError(t, eng.DeleteTable(ctx, table.ID))
	require.NoError(t, eng.DeleteHall(ctx, table.HallID))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(storeErr(errors.New("database is locked"))))
	assert.False(t, IsRetryable(invalidArgf("bad input")))
	assert.False(t, IsRetryable(notFoundf("table 1")))
}
