package migrations

import (
	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateBulkUploadJobsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating bulk_upload_jobs table...")
	if err := db.AutoMigrate(&models.BulkUploadJob{}); err != nil {
		configslog.Log.Error("Failed to migrate bulk_upload_jobs table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Bulk_upload_jobs table migrated successfully")
	return nil
}
