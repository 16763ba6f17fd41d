package models

import (
	"time"
)

// DBChange is the change feed behind the projection layer: triggers append
// a row per insert/update on the watched tables and the change monitor
// drains unprocessed rows into full-snapshot broadcasts.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null;index:idx_table_action"`
	RecordID   int64     `gorm:"not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_table_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}
