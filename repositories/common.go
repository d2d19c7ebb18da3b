package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo katmanı genel hataları.
var (
	// ErrNotFound gorm.ErrRecordNotFound'un dışarıya çevrilmiş hali.
	ErrNotFound = errors.New("kayıt bulunamadı")
	// ErrStagingUnavailable staging store'a (Redis) ulaşılamadığında döner;
	// geçici altyapı hatasıdır, "veri yok" ile karıştırılmamalıdır.
	ErrStagingUnavailable = errors.New("staging store erişilemiyor")
)

// forUpdate satır kilidini SELECT ... FOR UPDATE destekleyen sürücülerde
// uygular. SQLite zaten bağlantı başına tek yazar çalıştığından kilitsiz geçer.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
