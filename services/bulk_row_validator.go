package services

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"davetli.app/models"
	"davetli.app/repositories"
)

var (
	nameRe  = regexp.MustCompile(`^[\p{L}\s.'-]{2,255}$`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

const maxPersonalMessageLen = 500

// RawGuestRow CSV'den veya satır API'sinden gelen ham misafir verisi.
// Alanlar sınırda bir kez çözülür; doğrulayıcı serbest biçimli girdi kabul etmez.
type RawGuestRow struct {
	FullName        string
	Email           string
	TicketType      string
	Company         string
	PersonalMessage string
}

// ValidationContext bir doğrulama çalıştırmasının salt okunur bağlamı:
// bilet türü önbelleği, global tekillik bayrağı ve kalıcı mükerrer tabanları.
type ValidationContext struct {
	GlobalUnique   bool
	TicketCache    map[string]TicketCacheEntry
	ExistingGlobal map[string]struct{}
	ExistingTicket map[repositories.GuestKey]struct{}
}

// NewValidationContext kalıcı misafir anahtarlarından bağlam kurar.
func NewValidationContext(globalUnique bool, cache map[string]TicketCacheEntry, existing []repositories.GuestKey) *ValidationContext {
	vctx := &ValidationContext{
		GlobalUnique:   globalUnique,
		TicketCache:    cache,
		ExistingGlobal: make(map[string]struct{}, len(existing)),
		ExistingTicket: make(map[repositories.GuestKey]struct{}, len(existing)),
	}
	for _, key := range existing {
		vctx.ExistingGlobal[key.Email] = struct{}{}
		if key.TicketName != "" {
			vctx.ExistingTicket[key] = struct{}{}
		}
	}
	return vctx
}

// DuplicateTracker dosya içi mükerrer takibi. Eşzamanlı worker'lar tek mutex
// altında birbirinin sahiplenmelerini gördüğünden store gidiş-dönüşü gerekmez.
// İlk sahiplenen satır kazanır; sonrakiler mükerrer işaretlenir.
type DuplicateTracker struct {
	mu         sync.Mutex
	seenGlobal map[string]int
	seenTicket map[repositories.GuestKey]int
}

// NewDuplicateTracker yeni bir DuplicateTracker örneği oluşturur.
func NewDuplicateTracker() *DuplicateTracker {
	return &DuplicateTracker{
		seenGlobal: make(map[string]int),
		seenTicket: make(map[repositories.GuestKey]int),
	}
}

// Seed staging'deki mevcut satırları takipçiye yükler. excludeRowID negatif
// değilse o satır atlanır (satır düzenlemede satırın kendisiyle çakışmaması için).
func (t *DuplicateTracker) Seed(rows []models.StagedRow, excludeRowID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range rows {
		if excludeRowID >= 0 && row.ID == excludeRowID {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(row.GuestEmail))
		ticket := strings.ToLower(strings.TrimSpace(row.TicketType))
		if email == "" {
			continue
		}
		if _, ok := t.seenGlobal[email]; !ok {
			t.seenGlobal[email] = row.RowNumber
		}
		if ticket != "" {
			key := repositories.GuestKey{Email: email, TicketName: ticket}
			if _, ok := t.seenTicket[key]; !ok {
				t.seenTicket[key] = row.RowNumber
			}
		}
	}
}

// claimGlobal e-postayı sahiplenmeyi dener; daha önce sahiplenilmişse ilk
// satır numarasını ve true döner.
func (t *DuplicateTracker) claimGlobal(email string, rowNumber int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if first, ok := t.seenGlobal[email]; ok {
		return first, true
	}
	t.seenGlobal[email] = rowNumber
	return 0, false
}

func (t *DuplicateTracker) claimTicket(key repositories.GuestKey, rowNumber int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if first, ok := t.seenTicket[key]; ok {
		return first, true
	}
	t.seenTicket[key] = rowNumber
	return 0, false
}

// ValidateGuestRow tek bir misafir satırını iş kurallarına göre doğrular.
// Kural sırası: (a) ad, (b) e-posta, (c) bilet türü, (d) önceki hata yoksa
// tekillik — önce kalıcı kayıtlara, sonra dosya içi haritaya karşı.
// Saf fonksiyondur; tek yan etkisi takipçideki sahiplenmedir.
func ValidateGuestRow(raw RawGuestRow, rowNumber int, vctx *ValidationContext, tracker *DuplicateTracker, defaultMessage string) models.StagedRow {
	errs := map[string]string{}

	name := strings.TrimSpace(raw.FullName)
	if len([]rune(name)) < 2 || !nameRe.MatchString(name) {
		errs[models.RowErrGuestName] = "Ad Soyad zorunludur (en az 2 karakter, yalnızca harf)."
	}

	email := strings.ToLower(strings.TrimSpace(raw.Email))
	if !emailRe.MatchString(email) {
		errs[models.RowErrGuestEmail] = "Geçersiz e-posta formatı."
	}

	ticketRaw := strings.TrimSpace(raw.TicketType)
	ticketNorm := strings.ToLower(ticketRaw)
	entry, ticketOK := vctx.TicketCache[ticketNorm]
	if !ticketOK {
		errs[models.RowErrTicketType] = "Geçerli bir bilet türü seçin."
	}

	company := strings.TrimSpace(raw.Company)
	message := strings.TrimSpace(raw.PersonalMessage)
	if message == "" && defaultMessage != "" {
		message = defaultMessage
		if len(message) > maxPersonalMessageLen {
			message = message[:maxPersonalMessageLen]
		}
	}

	duplicateDB := false
	fileLevelDuplicate := false

	// Tekillik yalnızca biçimsel olarak temiz satırlara uygulanır.
	if len(errs) == 0 && email != "" {
		ticketKey := repositories.GuestKey{Email: email, TicketName: ticketNorm}

		// Kalıcı kayıtlara karşı kontrol.
		if vctx.GlobalUnique {
			if _, ok := vctx.ExistingGlobal[email]; ok {
				duplicateDB = true
				errs[models.RowErrDuplicate] = "Bu e-posta için davetiye zaten mevcut (global tekillik)."
			}
		} else if entry.EnforceUniqueEmail {
			if _, ok := vctx.ExistingTicket[ticketKey]; ok {
				duplicateDB = true
				errs[models.RowErrDuplicate] = "Bu e-posta ve bilet türü için davetiye zaten mevcut."
			}
		}

		// Dosya içi kontrol; ilk görülen satır anahtarı sahiplenir.
		if tracker != nil {
			if vctx.GlobalUnique {
				if first, dup := tracker.claimGlobal(email, rowNumber); dup {
					fileLevelDuplicate = true
					errs[models.RowErrFileLevelDuplicate] = fmt.Sprintf("Dosya içinde mükerrer kayıt (satır %d ile aynı)", first)
				}
			} else if entry.EnforceUniqueEmail {
				if first, dup := tracker.claimTicket(ticketKey, rowNumber); dup {
					fileLevelDuplicate = true
					errs[models.RowErrFileLevelDuplicate] = fmt.Sprintf("Dosya içinde mükerrer kayıt (satır %d ile aynı)", first)
				}
			}
		}
	}

	status := models.RowStatusValid
	if len(errs) > 0 {
		status = models.RowStatusInvalid
	}

	ticketValue := ticketNorm
	if ticketValue == "" {
		ticketValue = ticketRaw
	}

	return models.StagedRow{
		ID:                 rowNumber,
		RowNumber:          rowNumber,
		GuestName:          name,
		GuestEmail:         email,
		TicketType:         ticketValue,
		Company:            company,
		PersonalMessage:    message,
		Status:             status,
		ErrorFound:         len(errs) > 0,
		Duplicate:          duplicateDB,
		FileLevelDuplicate: fileLevelDuplicate,
		Errors:             errs,
	}
}
