package engine

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
)

// ListTables returns every table across all halls.
func (e *Engine) ListTables(ctx context.Context) ([]models.Table, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var tables []models.Table
	if err := e.db.WithContext(ctx).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, storeErr(err)
	}
	return tables, nil
}

// ListTablesByHall returns the tables of one hall.
func (e *Engine) ListTablesByHall(ctx context.Context, hallID uint) ([]models.Table, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var tables []models.Table
	if err := e.db.WithContext(ctx).Where("hall_id = ?", hallID).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, storeErr(err)
	}
	return tables, nil
}

// GetTable returns one table by id.
func (e *Engine) GetTable(ctx context.Context, tableID uint) (models.Table, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var table models.Table
	if err := e.db.WithContext(ctx).First(&table, tableID).Error; err != nil {
		return models.Table{}, storeErr(err)
	}
	return table, nil
}

// SetGuestCount overwrites a table's guest count. A nonzero count occupies
// the table; the start timestamp is set only if not already running, and
// the running total is never touched.
func (e *Engine) SetGuestCount(ctx context.Context, tableID uint, count int) error {
	if count < 0 {
		return invalidArgf("guest count must not be negative, got %d", count)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	updates := map[string]interface{}{"guests": count}
	if count > 0 {
		updates["status"] = models.TableStatusOccupied
		updates["start_time"] = gorm.Expr("COALESCE(start_time, ?)", time.Now())
	}

	res := e.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", tableID).Updates(updates)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("table %d", tableID)
	}
	return nil
}

// CloseTable abandons a table's in-progress order: all order lines are
// discarded, not archived, and the table returns to free. Irreversible;
// checkout is the operation that archives before resetting.
func (e *Engine) CloseTable(ctx context.Context, tableID uint) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_id = ?", tableID).Delete(&models.OrderItem{}).Error; err != nil {
			return storeErr(err)
		}
		return resetTable(tx, tableID)
	})
	return storeErr(err)
}

// occupyTable applies the free→occupied transition together with a running
// total increment, as one SQL statement. The increment is an atomic
// expression so concurrent callers cannot lose updates, and COALESCE keeps
// the start timestamp of an already-running order.
func occupyTable(tx *gorm.DB, tableID uint, delta float64, now time.Time) error {
	res := tx.Model(&models.Table{}).Where("id = ?", tableID).Updates(map[string]interface{}{
		"status":       models.TableStatusOccupied,
		"total_amount": gorm.Expr("total_amount + ?", delta),
		"start_time":   gorm.Expr("COALESCE(start_time, ?)", now),
	})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("table %d", tableID)
	}
	return nil
}

// resetTable restores the free-state invariant: status free, zero guests,
// no start timestamp, zero total.
func resetTable(tx *gorm.DB, tableID uint) error {
	res := tx.Model(&models.Table{}).Where("id = ?", tableID).Updates(map[string]interface{}{
		"status":       models.TableStatusFree,
		"guests":       0,
		"start_time":   nil,
		"total_amount": 0,
	})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("table %d", tableID)
	}
	return nil
}

// AddHall creates a hall.
func (e *Engine) AddHall(ctx context.Context, name string) (models.Hall, error) {
	if name == "" {
		return models.Hall{}, invalidArgf("hall name is required")
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	hall := models.Hall{Name: name}
	if err := e.db.WithContext(ctx).Create(&hall).Error; err != nil {
		return models.Hall{}, storeErr(err)
	}
	return hall, nil
}

// ListHalls returns all halls.
func (e *Engine) ListHalls(ctx context.Context) ([]models.Hall, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var halls []models.Hall
	if err := e.db.WithContext(ctx).Order("id ASC").Find(&halls).Error; err != nil {
		return nil, storeErr(err)
	}
	return halls, nil
}

// DeleteHall removes a hall and its tables. Refused while any table of the
// hall still has open order lines.
func (e *Engine) DeleteHall(ctx context.Context, hallID uint) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		err := tx.Model(&models.OrderItem{}).
			Joins("JOIN tables ON tables.id = order_items.table_id").
			Where("tables.hall_id = ?", hallID).
			Count(&open).Error
		if err != nil {
			return storeErr(err)
		}
		if open > 0 {
			return constraintf("hall %d has tables with open orders", hallID)
		}
		if err := tx.Where("hall_id = ?", hallID).Delete(&models.Table{}).Error; err != nil {
			return storeErr(err)
		}
		res := tx.Delete(&models.Hall{}, hallID)
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return notFoundf("hall %d", hallID)
		}
		return nil
	})
	return storeErr(err)
}

// AddTable creates a free table in a hall.
func (e *Engine) AddTable(ctx context.Context, hallID uint, name string) (models.Table, error) {
	if name == "" {
		return models.Table{}, invalidArgf("table name is required")
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var hall models.Hall
	if err := e.db.WithContext(ctx).First(&hall, hallID).Error; err != nil {
		return models.Table{}, storeErr(err)
	}
	table := models.Table{HallID: hallID, Name: name, Status: models.TableStatusFree}
	if err := e.db.WithContext(ctx).Create(&table).Error; err != nil {
		return models.Table{}, storeErr(err)
	}
	return table, nil
}

// DeleteTable removes a table. Refused while order lines reference it.
func (e *Engine) DeleteTable(ctx context.Context, tableID uint) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.OrderItem{}).Where("table_id = ?", tableID).Count(&open).Error; err != nil {
			return storeErr(err)
		}
		if open > 0 {
			return constraintf("table %d has open order lines", tableID)
		}
		res := tx.Delete(&models.Table{}, tableID)
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return notFoundf("table %d", tableID)
		}
		return nil
	})
	return storeErr(err)
}
