package models

import "time"

const (
	PaymentMethodCash  = "cash"
	PaymentMethodCard  = "card"
	PaymentMethodClick = "click"
	PaymentMethodDebt  = "debt"
)

// Sale is the immutable record of one completed checkout. ItemsJSON holds
// the line snapshot taken at sale time; reports stay correct regardless of
// later product or price edits.
type Sale struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReceiptNo     string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"receipt_no"`
	Date          time.Time `gorm:"index;not null" json:"date"`
	TotalAmount   float64   `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Subtotal      float64   `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      float64   `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	PaymentMethod string    `gorm:"type:varchar(20);not null" json:"payment_method"`
	CustomerID    *uint     `gorm:"index" json:"customer_id"`
	Customer      *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	ItemsJSON     string    `gorm:"type:text" json:"items_json"`
}

// SaleItem is one element of the serialized line snapshot.
type SaleItem struct {
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Destination string  `json:"destination"`
}
