package audit

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vasamilk/admin-console/internal/db"
)

const Schema = "console_audit"

// Init prepares the audit schema and returns a recorder backed by it.
func Init(d *gorm.DB) (*GormRecorder, error) {
	if err := db.EnsureSchema(d, Schema); err != nil {
		return nil, fmt.Errorf("ensure schema %s: %w", Schema, err)
	}

	if err := d.AutoMigrate(&Event{}); err != nil {
		return nil, fmt.Errorf("auto-migrate audit tables: %w", err)
	}

	return NewGormRecorder(d), nil
}
