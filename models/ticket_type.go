package models

import "time"

// TicketType davetiyelerde kullanılabilen bilet türü (Visitor, VIP vb.).
// Doğrulama hattı için salt okunurdur; her çalıştırmada bir kez önbelleğe alınır.
type TicketType struct {
	BaseModel
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`
	// EnforceUniqueEmail bilet kapsamında e-posta tekilliği zorunlu mu.
	EnforceUniqueEmail bool `gorm:"default:false" json:"enforce_unique_email"`
}

// InvitationSettings global davetiye ayarları (tek kayıt).
// EnforceGlobalUnique açıkken e-posta tekilliği tüm bilet türlerini kapsar
// ve bilet seviyesindeki ayarı ezer.
type InvitationSettings struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	EnforceGlobalUnique bool      `gorm:"default:false" json:"enforce_global_unique"`
	UpdatedAt           time.Time `json:"updated_at"`
}
