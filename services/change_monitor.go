package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/realtime"
	"github.com/tableside/restaurant-order/utils"
)

// ChangeMonitor drains the db_changes feed and republishes the affected
// collection as a full snapshot. Consumers replace their working set on
// every delivery, so the monitor never diffs; any change to a table means
// the whole collection is re-queried and pushed.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}

	// Collapse to one snapshot per table regardless of row count.
	touched := make(map[string]bool)
	for _, change := range changes {
		touched[change.TableName] = true

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change batch: %v", err)
		return
	}

	if touched["orders"] || touched["order_lines"] {
		cm.publishOrders()
	}
	if touched["menus"] {
		cm.publishMenus()
	}
}

func (cm *ChangeMonitor) publishOrders() {
	var orders []models.Order
	if err := cm.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading orders snapshot: %v", err)
		return
	}
	realtime.PublishOrders(orders)
}

func (cm *ChangeMonitor) publishMenus() {
	var menus []models.Menu
	if err := cm.DB.Order("name ASC").Find(&menus).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading menus snapshot: %v", err)
		return
	}
	realtime.PublishMenus(menus)
}
