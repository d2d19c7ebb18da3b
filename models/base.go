package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel tüm kalıcı modellerin ortak alanları.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
