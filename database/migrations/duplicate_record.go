package migrations

import (
	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateDuplicateRecordsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating duplicate_records table...")
	if err := db.AutoMigrate(&models.DuplicateRecord{}); err != nil {
		configslog.Log.Error("Failed to migrate duplicate_records table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Duplicate_records table migrated successfully")
	return nil
}
