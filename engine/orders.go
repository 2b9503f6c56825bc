package engine

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
)

// AddLine appends one line to a table's open order. The line insert and the
// table's occupied/total/start-time update commit as one transaction: a line
// never exists without its total increment, and vice versa.
func (e *Engine) AddLine(ctx context.Context, tableID uint, productName string, price float64, quantity int, destination string) (models.OrderItem, error) {
	if productName == "" {
		return models.OrderItem{}, invalidArgf("product name is required")
	}
	if quantity < 1 {
		return models.OrderItem{}, invalidArgf("quantity must be at least 1, got %d", quantity)
	}
	if price < 0 {
		return models.OrderItem{}, invalidArgf("price must not be negative, got %.2f", price)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	item := models.OrderItem{
		TableID:     tableID,
		ProductName: productName,
		Price:       price,
		Quantity:    quantity,
		Destination: destination,
	}
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := occupyTable(tx, tableID, price*float64(quantity), time.Now()); err != nil {
			return err
		}
		if err := tx.Create(&item).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return models.OrderItem{}, storeErr(err)
	}
	return item, nil
}

// ListLines returns a table's open order lines in insertion order. The
// result is what callers snapshot into a sale record before checkout.
func (e *Engine) ListLines(ctx context.Context, tableID uint) ([]models.OrderItem, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var items []models.OrderItem
	if err := e.db.WithContext(ctx).Where("table_id = ?", tableID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}
