package models

// OrderItem is one line of a table's currently open order. Product name and
// price are snapshots, not live references, so later menu edits never change
// a running order. All lines of a table are removed together on close/checkout.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	TableID     uint    `gorm:"index;not null" json:"table_id"`
	Table       Table   `gorm:"foreignKey:TableID" json:"-"`
	ProductName string  `gorm:"type:varchar(150);not null" json:"product_name"`
	Price       float64 `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	Destination string  `gorm:"type:varchar(50)" json:"destination"`
}
