package database

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-pos/models"
)

// Open connects to the store. The default is a local SQLite file next to
// the binary, matching the single-writer desktop deployment; set
// DB_DRIVER=mysql with DB_DSN for a shared server instead.
func Open() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "pos.db"
		}
		// Serialize writers at the driver level; busy_timeout turns lock
		// contention into a bounded wait instead of an immediate error.
		dsn := path + "?_busy_timeout=5000&_journal_mode=WAL"
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	case "mysql":
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			return nil, fmt.Errorf("DB_DSN is required for the mysql driver")
		}
		db, err = gorm.Open(mysql.Open(mysqlDSN(dsn)), gormCfg)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// mysqlDSN makes UPDATE report matched rows instead of changed rows.
// Without it a no-op update on an existing row yields RowsAffected==0,
// which the engine would misread as a missing row.
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "clientFoundRows=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "clientFoundRows=true"
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Hall{},
		&models.Table{},
		&models.Customer{},
		&models.DebtEntry{},
		&models.Category{},
		&models.Product{},
		&models.Kitchen{},
		&models.OrderItem{},
		&models.Sale{},
		&models.Setting{},
		&models.User{},
	)
}

// Seed fills an empty store with a minimal working setup: the preparation
// stations, one hall with one table and one menu item.
func Seed(db *gorm.DB) error {
	var kitchens int64
	if err := db.Model(&models.Kitchen{}).Count(&kitchens).Error; err != nil {
		return err
	}
	if kitchens == 0 {
		stations := []models.Kitchen{
			{Name: "Kitchen", PrinterIP: "192.168.1.200"},
			{Name: "Bar", PrinterIP: "192.168.1.201"},
			{Name: "Grill", PrinterIP: "192.168.1.202"},
		}
		if err := db.Create(&stations).Error; err != nil {
			return err
		}
	}

	var halls int64
	if err := db.Model(&models.Hall{}).Count(&halls).Error; err != nil {
		return err
	}
	if halls == 0 {
		hall := models.Hall{Name: "Main Hall"}
		if err := db.Create(&hall).Error; err != nil {
			return err
		}
		if err := db.Create(&models.Table{HallID: hall.ID, Name: "Table 1"}).Error; err != nil {
			return err
		}
		category := models.Category{Name: "Dishes"}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		product := models.Product{
			CategoryID:  &category.ID,
			Name:        "Osh",
			Price:       65000,
			Destination: "1",
			IsActive:    true,
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
	}
	return nil
}
