package seeders

import (
	"errors"

	"davetli.app/configs"
	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSystemUser sistemin sahibi olan tek yönetici kullanıcıyı oluşturur.
// Kullanıcı zaten varsa dokunulmaz.
func SeedSystemUser(db *gorm.DB) error {
	email := configs.GetEnv("SYSTEM_USER_EMAIL", "system@davetli.app")

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		configslog.SLog.Debugf("Sistem kullanıcısı '%s' zaten mevcut, oluşturma atlanıyor.", email)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Sistem kullanıcısı kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	password := configs.GetEnv("SYSTEM_USER_PASSWORD", "")
	if password == "" {
		return errors.New("sistem kullanıcısı için SYSTEM_USER_PASSWORD tanımlı değil")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Parola hash'lenemedi", zap.Error(err))
		return err
	}

	user := models.User{
		Name:         "Sistem",
		Email:        email,
		PasswordHash: string(hash),
		IsSystem:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("Sistem kullanıcısı oluşturulamadı", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Sistem kullanıcısı '%s' başarıyla oluşturuldu (ID: %d).", email, user.ID)
	return nil
}
