package engine

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
)

// CheckoutInput carries everything needed to finalize a table. Lines is the
// caller-supplied snapshot of the current order listing; checkout does not
// re-read the order ledger, so callers must pass the listing they displayed.
type CheckoutInput struct {
	TableID       uint
	Subtotal      float64
	Discount      float64
	Total         float64
	PaymentMethod string
	CustomerID    *uint
	Lines         []models.SaleItem
}

const creditSaleComment = "sale on credit"

// Checkout finalizes a table's order in one transaction: archive the sale,
// record the debt when sold on credit, delete the table's order lines and
// reset the table to free. All steps commit or none do — a store failure
// mid-checkout never leaves a sale without its debt entry or a cleared
// table without an archived sale.
func (e *Engine) Checkout(ctx context.Context, in CheckoutInput) (models.Sale, error) {
	if !validPaymentMethod(in.PaymentMethod) {
		return models.Sale{}, invalidArgf("unknown payment method %q", in.PaymentMethod)
	}
	if in.PaymentMethod == models.PaymentMethodDebt && in.CustomerID == nil {
		return models.Sale{}, invalidArgf("payment method %q requires a customer", models.PaymentMethodDebt)
	}
	if in.Total < 0 || in.Subtotal < 0 || in.Discount < 0 {
		return models.Sale{}, invalidArgf("sale amounts must not be negative")
	}

	itemsJSON, err := MarshalLines(in.Lines)
	if err != nil {
		return models.Sale{}, err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	sale := models.Sale{
		Date:          time.Now(),
		TotalAmount:   in.Total,
		Subtotal:      in.Subtotal,
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		CustomerID:    in.CustomerID,
		ItemsJSON:     itemsJSON,
	}
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := archiveSale(tx, &sale); err != nil {
			return err
		}
		if in.PaymentMethod == models.PaymentMethodDebt {
			if err := applyDebt(tx, *in.CustomerID, in.Total, models.DebtEntryDebt, creditSaleComment, e.cfg.AllowOverpayment); err != nil {
				return err
			}
		}
		if err := tx.Where("table_id = ?", in.TableID).Delete(&models.OrderItem{}).Error; err != nil {
			return storeErr(err)
		}
		// Also the existence check for the table: zero rows aborts the
		// whole transaction, including the sale archived above.
		return resetTable(tx, in.TableID)
	})
	if err != nil {
		return models.Sale{}, storeErr(err)
	}
	return sale, nil
}
