package models

// User davetiye sahibi hesap (katılımcı firma). Kimlik doğrulama bu servisin
// dışında yapılır; burada yalnızca sahiplik ilişkisi için tutulur.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255)" json:"-"`
	IsSystem     bool   `gorm:"default:false" json:"is_system"`
}
