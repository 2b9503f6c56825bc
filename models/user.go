package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleWaiter = "waiter"
)

type User struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	PinHash string `gorm:"type:varchar(100);not null" json:"-"`
	Role    string `gorm:"type:varchar(20);not null;default:'waiter'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
