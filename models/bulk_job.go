package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BulkUploadJob durum makinesi:
//
//	pending → processing → preview_ready → confirmed → sending → completed
//	                     ↘ failed                              ↘ failed
//
// cleared_data: staging verisi kullanıcı tarafından boşaltıldığında.
const (
	BulkStatusPending      = "pending"
	BulkStatusProcessing   = "processing"
	BulkStatusPreviewReady = "preview_ready"
	BulkStatusConfirmed    = "confirmed"
	BulkStatusSending      = "sending"
	BulkStatusCompleted    = "completed"
	BulkStatusFailed       = "failed"
	BulkStatusCleared      = "cleared_data"
)

// BulkUploadJob bir toplu CSV yükleme işi. Satır verisi staging store'da
// (Redis) tutulur; bu kayıt yaşam döngüsünü ve özet sayaçları taşır.
// Sayaçlar her aşama sonunda staging store ile tutarlı olmak zorundadır.
type BulkUploadJob struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	FilePath string `gorm:"type:varchar(500)" json:"-"`
	FileName string `gorm:"type:varchar(255)" json:"file_name"`
	Status   string `gorm:"type:varchar(30);index;default:'pending'" json:"status"`

	TotalCount   int `gorm:"default:0" json:"total_count"`
	ValidCount   int `gorm:"default:0" json:"valid_count"`
	InvalidCount int `gorm:"default:0" json:"invalid_count"`

	// PreviewData anında UI geri bildirimi için ilk N geçersiz satır.
	PreviewData datatypes.JSON `json:"preview_data"`
	ErrorNote   string         `gorm:"type:text" json:"error_note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate iş kimliğini UUID olarak atar.
func (j *BulkUploadJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}
