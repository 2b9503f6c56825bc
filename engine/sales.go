package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
)

func validPaymentMethod(method string) bool {
	switch method {
	case models.PaymentMethodCash, models.PaymentMethodCard, models.PaymentMethodClick, models.PaymentMethodDebt:
		return true
	}
	return false
}

// ArchiveSale inserts one immutable sale record and returns it with the
// generated id and receipt number. No business validation beyond required
// fields; the archive is the system of record for reporting and is never
// updated or deleted.
func (e *Engine) ArchiveSale(ctx context.Context, sale models.Sale) (models.Sale, error) {
	if !validPaymentMethod(sale.PaymentMethod) {
		return models.Sale{}, invalidArgf("unknown payment method %q", sale.PaymentMethod)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return archiveSale(tx, &sale)
	})
	if err != nil {
		return models.Sale{}, storeErr(err)
	}
	return sale, nil
}

func archiveSale(tx *gorm.DB, sale *models.Sale) error {
	if sale.ReceiptNo == "" {
		sale.ReceiptNo = uuid.NewString()
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	if err := tx.Create(sale).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// QuerySales returns archived sales newest-first. With both bounds set the
// filter is inclusive; without a range the most recent records are returned,
// capped by the configured limit.
func (e *Engine) QuerySales(ctx context.Context, from, to *time.Time) ([]models.Sale, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	q := e.db.WithContext(ctx).Model(&models.Sale{}).Order("date DESC, id DESC")
	if from != nil && to != nil {
		q = q.Where("date >= ? AND date <= ?", *from, *to)
	} else {
		if from != nil {
			q = q.Where("date >= ?", *from)
		}
		if to != nil {
			q = q.Where("date <= ?", *to)
		}
		if from == nil && to == nil {
			q = q.Limit(e.cfg.SalesQueryLimit)
		}
	}

	var sales []models.Sale
	if err := q.Find(&sales).Error; err != nil {
		return nil, storeErr(err)
	}
	return sales, nil
}

// MarshalLines serializes a line snapshot for storage in a sale record.
func MarshalLines(lines []models.SaleItem) (string, error) {
	if lines == nil {
		lines = []models.SaleItem{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return "", invalidArgf("cannot serialize order lines: %v", err)
	}
	return string(raw), nil
}

// SnapshotLines converts a table's open order lines into the sale-record
// snapshot form.
func SnapshotLines(items []models.OrderItem) []models.SaleItem {
	lines := make([]models.SaleItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, models.SaleItem{
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Destination: it.Destination,
		})
	}
	return lines
}
