package seeders

import (
	"errors"

	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedTicketTypes temel bilet türlerini ve tekillik ayar kaydını oluşturur.
func SeedTicketTypes(db *gorm.DB) error {
	ticketTypesToSeed := []models.TicketType{
		{Name: "Standard", Description: "Standart ziyaretçi bileti", IsActive: true, EnforceUniqueEmail: true},
		{Name: "VIP", Description: "VIP ziyaretçi bileti", IsActive: true, EnforceUniqueEmail: true},
		{Name: "Press", Description: "Basın bileti", IsActive: true, EnforceUniqueEmail: false},
	}

	var createdCount int64 = 0
	var errorOccurred bool = false

	configslog.SLog.Info("Bilet türleri seed işlemi başlıyor...")

	for _, ticketType := range ticketTypesToSeed {
		var existing models.TicketType
		result := db.Where("name = ?", ticketType.Name).First(&existing)

		if result.Error == nil {
			configslog.SLog.Debugf("Bilet türü '%s' zaten mevcut, oluşturma atlanıyor.", ticketType.Name)
			continue
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			configslog.Log.Error("Bilet türü kontrol edilirken veritabanı hatası",
				zap.String("ticket_type", ticketType.Name),
				zap.Error(result.Error),
			)
			errorOccurred = true
			continue
		}

		if err := db.Create(&ticketType).Error; err != nil {
			configslog.Log.Error("Bilet türü oluşturulamadı",
				zap.String("ticket_type", ticketType.Name),
				zap.Error(err),
			)
			errorOccurred = true
			continue
		}

		configslog.SLog.Infof("Bilet türü '%s' başarıyla oluşturuldu (ID: %d).", ticketType.Name, ticketType.ID)
		createdCount++
	}

	if createdCount > 0 {
		configslog.SLog.Infof("%d adet yeni bilet türü seed edildi.", createdCount)
	} else if !errorOccurred {
		configslog.SLog.Info("Tüm bilet türleri zaten mevcut, yeni ekleme yapılmadı.")
	}

	if errorOccurred {
		return errors.New("bilet türleri seed edilirken en az bir hata oluştu")
	}

	// Global tekillik ayarı tek kayıttır; yoksa kapalı olarak oluşturulur.
	var settings models.InvitationSettings
	result := db.First(&settings)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		settings = models.InvitationSettings{EnforceGlobalUnique: false}
		if err := db.Create(&settings).Error; err != nil {
			configslog.Log.Error("Davetiye ayar kaydı oluşturulamadı", zap.Error(err))
			return err
		}
		configslog.SLog.Info("Davetiye ayar kaydı oluşturuldu.")
	} else if result.Error != nil {
		return result.Error
	}

	configslog.SLog.Info("Bilet türleri seed işlemi başarıyla tamamlandı.")
	return nil
}
