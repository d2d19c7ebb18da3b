package models

// Staging alanındaki satır durumları.
const (
	RowStatusValid   = "valid"
	RowStatusInvalid = "invalid"
)

// Satır hata haritasında kullanılan alan anahtarları.
const (
	RowErrGuestName          = "guest_name"
	RowErrGuestEmail         = "guest_email"
	RowErrTicketType         = "ticket_type"
	RowErrDuplicate          = "duplicate"
	RowErrFileLevelDuplicate = "file_level_duplicate"
)

// StagedRow onay bekleyen tek bir misafir satırı. Kalıcı değildir;
// staging store'da iş kimliği + satır kimliği ile adreslenir.
// ID sıralamadan bağımsız ve iş içinde benzersizdir; RowNumber dosyadaki
// 1 tabanlı sırayı korur ve mükerrer mesajlarında referans verilir.
type StagedRow struct {
	ID                 int               `json:"id"`
	RowNumber          int               `json:"row_number"`
	GuestName          string            `json:"guest_name"`
	GuestEmail         string            `json:"guest_email"`
	TicketType         string            `json:"ticket_type"`
	Company            string            `json:"company"`
	PersonalMessage    string            `json:"personal_message"`
	Status             string            `json:"status"`
	ErrorFound         bool              `json:"error_found"`
	Duplicate          bool              `json:"duplicate"`
	FileLevelDuplicate bool              `json:"file_level_duplicate"`
	Errors             map[string]string `json:"errors"`
}

// StagedStats staging store'daki sayaç alanları.
type StagedStats struct {
	TotalCount   int `json:"total_count"`
	ValidCount   int `json:"valid_count"`
	InvalidCount int `json:"invalid_count"`
}
