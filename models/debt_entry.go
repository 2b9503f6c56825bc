package models

import "time"

const (
	DebtEntryDebt    = "debt"
	DebtEntryPayment = "payment"
)

// DebtEntry is one append-only event in a customer's debt history.
// Entries are never updated or deleted; the customer's debt column must
// always equal the sum of debt entries minus the sum of payment entries.
type DebtEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	Amount     float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Type       string    `gorm:"type:varchar(20);not null" json:"type"`
	Date       time.Time `gorm:"not null" json:"date"`
	Comment    string    `gorm:"type:text" json:"comment"`
}
