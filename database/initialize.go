package database

import (
	"davetli.app/configs/configslog"
	"davetli.app/database/migrations"
	"davetli.app/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Migrate veya seed bayrağı belirtilmedi, işlem yapılmayacak.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Veritabanı transaction başlatılamadı", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Veritabanı başlatma işlemi başarısız oldu (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Başlatma sırasında hata oluştuğu için işlem geri alınıyor.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Rollback sırasında ek hata oluştu", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Veritabanı başlatma işlemi başlıyor...")

	if migrate {
		configslog.SLog.Info("Migrasyonlar çalıştırılıyor...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migrasyon başarısız oldu", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrasyonlar tamamlandı.")
	} else {
		configslog.SLog.Info("Migrate bayrağı belirtilmedi, migrasyon adımı atlanıyor.")
	}

	if seed {
		configslog.SLog.Info("Seeder'lar çalıştırılıyor...")
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding başarısız oldu", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeder'lar tamamlandı.")
	} else {
		configslog.SLog.Info("Seed bayrağı belirtilmedi, seeder adımı atlanıyor.")
	}

	configslog.SLog.Info("İşlem commit ediliyor...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit başarısız oldu", zap.Error(err))
		return
	}

	configslog.SLog.Info("Veritabanı başlatma işlemi başarıyla tamamlandı")
}

// RunMigrationsInOrder tabloları bağımlılık sırasına göre migrate eder:
// önce users ve ticket_types, sonra onlara referans veren tablolar.
func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info("Migrasyonlar sırayla çalıştırılıyor...")

	configslog.SLog.Info(" -> User migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateUsersTable(db); err != nil {
		configslog.Log.Error("Users tablosu migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> User migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> TicketType migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateTicketTypesTables(db); err != nil {
		configslog.Log.Error("Ticket_types tabloları migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> TicketType migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> Invitation migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateInvitationsTable(db); err != nil {
		configslog.Log.Error("Invitations tablosu migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Invitation migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> BulkUploadJob migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateBulkUploadJobsTable(db); err != nil {
		configslog.Log.Error("Bulk_upload_jobs tablosu migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> BulkUploadJob migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> InvitationStats migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateInvitationStatsTable(db); err != nil {
		configslog.Log.Error("Invitation_stats tablosu migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> InvitationStats migrasyonları tamamlandı.")

	configslog.SLog.Info(" -> DuplicateRecord migrasyonları çalıştırılıyor...")
	if err := migrations.MigrateDuplicateRecordsTable(db); err != nil {
		configslog.Log.Error("Duplicate_records tablosu migrasyonu başarısız oldu", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> DuplicateRecord migrasyonları tamamlandı.")

	configslog.SLog.Info("Tüm migrasyonlar başarıyla tamamlandı.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info("Sistem kullanıcısı kontrol ediliyor/oluşturuluyor...")
	if err := seeders.SeedSystemUser(db); err != nil {
		configslog.Log.Error("Sistem kullanıcısı seed işlemi başarısız", zap.Error(err))
		return err
	}

	configslog.SLog.Info(" -> TicketType seeder çalıştırılıyor...")
	if err := seeders.SeedTicketTypes(db); err != nil {
		configslog.Log.Error("Bilet türleri seed işlemi başarısız", zap.Error(err))
		return err
	}

	configslog.SLog.Info(" -> InvitationStats seeder çalıştırılıyor...")
	if err := seeders.SeedInvitationStats(db); err != nil {
		configslog.Log.Error("Kota seed işlemi başarısız", zap.Error(err))
		return err
	}

	configslog.SLog.Info("Tüm seeder'lar başarıyla tamamlandı.")
	return nil
}
