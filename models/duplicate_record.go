package models

// Mükerrer tespitinin kaynağı.
const (
	DetectionSourceDBCheck      = "db_check"
	DetectionSourceDedupService = "dedup_service"
	DetectionSourceFileCheck    = "file_check"
)

// Tekillik kapsamı.
const (
	ScopeTicket = "ticket"
	ScopeGlobal = "global"
	ScopeNone   = "none"
)

// DuplicateRecord tespit edilen her e-posta/bilet çakışmasının denetim kaydı.
// Yalnızca eklenir, güncellenmez.
type DuplicateRecord struct {
	BaseModel
	UserID       uint        `gorm:"index;not null" json:"user_id"`
	JobID        *string     `gorm:"type:uuid;index" json:"job_id,omitempty"`
	RowNumber    int         `gorm:"default:0" json:"row_number"`
	GuestEmail   string      `gorm:"type:varchar(255);index" json:"guest_email"`
	TicketTypeID *uint       `gorm:"index" json:"ticket_type_id,omitempty"`
	TicketType   *TicketType `gorm:"foreignKey:TicketTypeID" json:"-"`
	// DetectionSource: db_check | dedup_service | file_check
	DetectionSource string `gorm:"type:varchar(30);index" json:"detection_source"`
	// Scope: ticket | global
	Scope  string `gorm:"type:varchar(10)" json:"scope"`
	Reason string `gorm:"type:text" json:"reason"`
}
