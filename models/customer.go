package models

import "time"

type Customer struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Name     string     `gorm:"type:varchar(150);not null" json:"name"`
	Phone    string     `gorm:"type:varchar(50)" json:"phone"`
	Type     string     `gorm:"type:varchar(50);not null;default:'standard'" json:"type"`
	Value    int        `gorm:"not null;default:0" json:"value"`
	Balance  float64    `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	Birthday *time.Time `json:"birthday"`
	// Debt is mutated only through the debt ledger, never written directly.
	Debt float64 `gorm:"type:decimal(12,2);not null;default:0" json:"debt"`
}
