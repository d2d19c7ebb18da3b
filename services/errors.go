package services

import "fmt"

// BulkServiceError toplu yükleme hattının özel servis hataları.
type BulkServiceError string

func (e BulkServiceError) Error() string { return string(e) }

const (
	ErrJobNotFound     BulkServiceError = "toplu yükleme işi bulunamadı"
	ErrJobNotReady     BulkServiceError = "dosya işleme için hazır değil"
	ErrJobBusy         BulkServiceError = "iş şu anda işleniyor, bu işlem yapılamaz"
	ErrNoValidRows     BulkServiceError = "işlenecek geçerli satır bulunamadı"
	ErrRowNotFound     BulkServiceError = "satır bulunamadı"
	ErrDuplicateRow    BulkServiceError = "mükerrer kayıt tespit edildi"
	ErrMissingFields   BulkServiceError = "zorunlu alanlar eksik"
	ErrFileTooLarge    BulkServiceError = "dosya boyutu üst sınırı aşıyor"
	ErrEmptyFile       BulkServiceError = "dosyada işlenecek satır yok"
	ErrInvalidHeader   BulkServiceError = "CSV başlık satırı beklenen sütunları içermiyor"
	ErrQuotaExceeded   BulkServiceError = "davetiye kotası yetersiz"
	ErrDispatchFailed  BulkServiceError = "arka plan görevi kuyruğa eklenemedi"
	ErrDedupUnavailable BulkServiceError = "dedup servisi erişilemiyor"
)

// QuotaExceededError onay anındaki kota yetersizliğini açık miktarıyla taşır.
type QuotaExceededError struct {
	Remaining int
	Requested int
}

// Shortfall eksik kalan davetiye sayısı.
func (e *QuotaExceededError) Shortfall() int {
	return e.Requested - e.Remaining
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf(
		"kota yetersiz: %d davetiye hakkınız kaldı, %d satır göndermeye çalışıyorsunuz (+%d gerekli); satır silin veya tahsis artışı bekleyin",
		e.Remaining, e.Requested, e.Shortfall(),
	)
}

// Is errors.Is(err, ErrQuotaExceeded) eşleşmesini sağlar.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
