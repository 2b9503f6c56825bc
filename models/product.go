package models

type Product struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	CategoryID *uint    `gorm:"index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"-"`
	Name       string   `gorm:"type:varchar(150);not null" json:"name"`
	Price      float64  `gorm:"type:decimal(12,2);not null" json:"price"`
	// Destination routes the product to a kitchen station when ordered.
	Destination string `gorm:"type:varchar(50)" json:"destination"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
	Image       string `gorm:"type:text" json:"image"`
}

// ProductView is the denormalized listing used by the menu endpoints.
type ProductView struct {
	Product
	CategoryName string `json:"category_name"`
	KitchenName  string `json:"kitchen_name"`
}
