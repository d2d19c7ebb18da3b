package models

import "time"

// Davetiye kaynak ve durum sabitleri.
const (
	SourcePersonal = "personal"
	SourceBulk     = "bulk"
	SourceLink     = "link"

	InvitationStatusActive  = "active"
	InvitationStatusExpired = "expired"
	// InvitationStatusPending toplu üretimde tekil olarak da yazılamayan
	// satırlar için terminal ara durum; misafir sessizce kaybolmaz.
	InvitationStatusPending = "pending"
)

// Invitation onaylanmış bir misafir davetiyesi. Toplu yüklemede staging
// alanındaki geçerli satırlardan üretilir.
type Invitation struct {
	BaseModel
	UserID uint `gorm:"index:idx_invitations_user_email;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Misafir bilgileri
	GuestName       string `gorm:"type:varchar(255);not null" json:"guest_name"`
	GuestEmail      string `gorm:"type:varchar(255);index:idx_invitations_user_email" json:"guest_email"`
	CompanyName     string `gorm:"type:varchar(255)" json:"company_name"`
	PersonalMessage string `gorm:"type:text" json:"personal_message"`

	// Davetiye yapılandırması
	TicketTypeID  uint       `gorm:"index;not null" json:"ticket_type_id"`
	TicketType    TicketType `gorm:"foreignKey:TicketTypeID" json:"-"`
	ExpireDate    time.Time  `gorm:"type:date;index" json:"expire_date"`
	SourceType    string     `gorm:"type:varchar(20);index" json:"source_type"`
	LinkCode      string     `gorm:"type:uuid;uniqueIndex;not null" json:"link_code"`
	InvitationURL string     `gorm:"type:varchar(500)" json:"invitation_url"`
	UsageLimit    int        `gorm:"default:1" json:"usage_limit"`
	UsageCount    int        `gorm:"default:0" json:"usage_count"`

	// Sistem alanları
	Status       string     `gorm:"type:varchar(20);default:'active';index" json:"status"`
	IsSent       bool       `gorm:"default:false" json:"is_sent"`
	Registered   bool       `gorm:"default:false" json:"registered"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
}

// RemainingUses kalan kullanım hakkı (negatif olmaz).
func (i *Invitation) RemainingUses() int {
	if remaining := i.UsageLimit - i.UsageCount; remaining > 0 {
		return remaining
	}
	return 0
}
