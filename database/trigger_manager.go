package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/utils"
)

// watchedTables feed the db_changes table that the change monitor drains.
var watchedTables = []string{"orders", "order_lines", "menus"}

// ExecuteTriggers installs insert/update triggers on the watched tables.
// MySQL only; sqlite deployments (dev, tests) rely on the in-process
// publish calls instead, so failures here are logged, not fatal.
func ExecuteTriggers(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		utils.InfoLogger.Printf("Skipping change triggers for dialect %s", db.Dialector.Name())
		return nil
	}

	for _, table := range watchedTables {
		for _, action := range []string{"INSERT", "UPDATE"} {
			name := fmt.Sprintf("trg_%s_%s", table, action)
			drop := fmt.Sprintf("DROP TRIGGER IF EXISTS %s", name)
			create := fmt.Sprintf(`CREATE TRIGGER %s AFTER %s ON %s FOR EACH ROW
				INSERT INTO db_changes (table_name, record_id, action_type, changed_at, processed)
				VALUES ('%s', NEW.id, '%s', NOW(), 0)`,
				name, action, table, table, action)

			if err := db.Exec(drop).Error; err != nil {
				utils.ErrorLogger.Printf("Error dropping trigger %s: %v", name, err)
				continue
			}
			if err := db.Exec(create).Error; err != nil {
				utils.ErrorLogger.Printf("Error creating trigger %s: %v", name, err)
				continue
			}
			utils.InfoLogger.Printf("Trigger installed: %s", name)
		}
	}

	return nil
}
