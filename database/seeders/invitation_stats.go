package seeders

import (
	"errors"

	"davetli.app/configs"
	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedInvitationStats global kota tekilini varsayılan tahsisle oluşturur.
func SeedInvitationStats(db *gorm.DB) error {
	var existing models.InvitationStats
	result := db.First(&existing)
	if result.Error == nil {
		configslog.SLog.Debug("Kota kaydı zaten mevcut, oluşturma atlanıyor.")
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Kota kaydı kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	allocation := configs.DefaultQuotaAllocation()
	stats := models.InvitationStats{
		AllocatedInvitations: allocation,
		RemainingInvitations: allocation,
	}
	if err := db.Create(&stats).Error; err != nil {
		configslog.Log.Error("Kota kaydı oluşturulamadı", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Kota kaydı oluşturuldu (tahsis: %d).", allocation)
	return nil
}
