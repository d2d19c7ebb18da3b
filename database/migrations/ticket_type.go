package migrations

import (
	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateTicketTypesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating ticket_types & invitation_settings tables...")
	if err := db.AutoMigrate(&models.TicketType{}, &models.InvitationSettings{}); err != nil {
		configslog.Log.Error("Failed to migrate ticket_types & invitation_settings tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Ticket_types & invitation_settings tables migrated successfully")
	return nil
}
