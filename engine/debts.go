package engine

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
)

// RecordDebt increases a customer's outstanding debt and appends the
// matching history entry, as one transaction.
func (e *Engine) RecordDebt(ctx context.Context, customerID uint, amount float64, comment string) error {
	if amount <= 0 {
		return invalidArgf("debt amount must be positive, got %.2f", amount)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyDebt(tx, customerID, amount, models.DebtEntryDebt, comment, e.cfg.AllowOverpayment)
	})
	return storeErr(err)
}

// RecordPayment decreases a customer's outstanding debt and appends the
// matching history entry, as one transaction. Payments above the current
// debt are rejected unless the over-payment policy allows them, in which
// case the negative balance reads as a customer credit.
func (e *Engine) RecordPayment(ctx context.Context, customerID uint, amount float64, comment string) error {
	if amount <= 0 {
		return invalidArgf("payment amount must be positive, got %.2f", amount)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyDebt(tx, customerID, amount, models.DebtEntryPayment, comment, e.cfg.AllowOverpayment)
	})
	return storeErr(err)
}

// applyDebt adjusts customer.debt and appends the ledger entry inside the
// caller's transaction. The adjustment is a single atomic SQL expression;
// two concurrent calls against the same customer cannot lose an update.
func applyDebt(tx *gorm.DB, customerID uint, amount float64, entryType, comment string, allowOverpayment bool) error {
	delta := amount
	if entryType == models.DebtEntryPayment {
		delta = -amount
	}

	query := tx.Model(&models.Customer{}).Where("id = ?", customerID)
	if entryType == models.DebtEntryPayment && !allowOverpayment {
		query = query.Where("debt >= ?", amount)
	}
	res := query.Update("debt", gorm.Expr("debt + ?", delta))
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).Count(&n).Error; err != nil {
			return storeErr(err)
		}
		if n == 0 {
			return notFoundf("customer %d", customerID)
		}
		return invalidArgf("payment of %.2f exceeds outstanding debt of customer %d", amount, customerID)
	}

	entry := models.DebtEntry{
		CustomerID: customerID,
		Amount:     amount,
		Type:       entryType,
		Date:       time.Now(),
		Comment:    comment,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// ListHistory returns a customer's debt history, newest first.
func (e *Engine) ListHistory(ctx context.Context, customerID uint) ([]models.DebtEntry, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var entries []models.DebtEntry
	if err := e.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id DESC").Find(&entries).Error; err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

// ListDebtors returns every customer with outstanding debt.
func (e *Engine) ListDebtors(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var customers []models.Customer
	if err := e.db.WithContext(ctx).Where("debt > 0").Order("id ASC").Find(&customers).Error; err != nil {
		return nil, storeErr(err)
	}
	return customers, nil
}
