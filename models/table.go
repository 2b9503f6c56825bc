package models

import "time"

const (
	TableStatusFree     = "free"
	TableStatusOccupied = "occupied"
)

// Table tracks one physical seating unit through its order lifecycle.
// Invariant: status "free" implies guests=0, start_time=NULL, total_amount=0.
type Table struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	HallID      uint       `gorm:"index;not null" json:"hall_id"`
	Hall        Hall       `gorm:"foreignKey:HallID;constraint:OnDelete:CASCADE" json:"-"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Status      string     `gorm:"type:varchar(20);not null;default:'free'" json:"status"`
	Guests      int        `gorm:"not null;default:0" json:"guests"`
	StartTime   *time.Time `json:"start_time"`
	TotalAmount float64    `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
}
