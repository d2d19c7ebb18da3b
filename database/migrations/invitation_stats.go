package migrations

import (
	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateInvitationStatsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating invitation_stats table...")
	if err := db.AutoMigrate(&models.InvitationStats{}); err != nil {
		configslog.Log.Error("Failed to migrate invitation_stats table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Invitation_stats table migrated successfully")
	return nil
}
