package models

// Kitchen is a preparation station order lines are routed to by the
// destination tag, typically backed by a network receipt printer.
type Kitchen struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	PrinterIP   string `gorm:"type:varchar(50)" json:"printer_ip"`
	PrinterPort int    `gorm:"not null;default:9100" json:"printer_port"`
}
