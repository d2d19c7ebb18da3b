package configs

import "time"

// Toplu yükleme hattının ayarları. Orijinal değerler ortam değişkeninden
// okunur; varsayılanlar küçük/orta CSV dosyaları için yeterlidir.

// BulkBatchSize bir chunk'ta işlenecek satır sayısı.
func BulkBatchSize() int {
	return GetEnvAsInt("BULK_BATCH_SIZE", 1000)
}

// BulkMaxWorkers doğrulama worker havuzunun boyutu.
func BulkMaxWorkers() int {
	return GetEnvAsInt("BULK_MAX_WORKERS", 4)
}

// BulkPreviewLimit iş kaydında saklanacak geçersiz satır örneği sayısı.
func BulkPreviewLimit() int {
	return GetEnvAsInt("BULK_PREVIEW_LIMIT", 5)
}

// BulkCreateBatchSize davetiye üretiminde tek seferde yazılacak kayıt sayısı.
func BulkCreateBatchSize() int {
	return GetEnvAsInt("BULK_CREATE_BATCH_SIZE", 5000)
}

// BulkUploadMaxSize yüklenen CSV için bayt cinsinden üst sınır (varsayılan 5MB).
func BulkUploadMaxSize() int64 {
	return int64(GetEnvAsInt("BULK_UPLOAD_MAX_SIZE", 5*1024*1024))
}

// BulkUploadDir yüklenen dosyaların saklanacağı dizin.
func BulkUploadDir() string {
	return GetEnv("BULK_UPLOAD_DIR", "uploads/bulk")
}

// DedupLockTTL tam dedup kilidinin (SETNX) yaşam süresi.
func DedupLockTTL() time.Duration {
	return GetEnvAsDuration("DEDUP_LOCK_TTL", time.Hour)
}

// DedupNamespace eşzamanlı yüklemelerin paylaştığı dedup ad alanı.
func DedupNamespace() string {
	return GetEnv("DEDUP_NAMESPACE", "invitations")
}

// InviteBaseURL üretilen davetiye linklerinin tabanı.
func InviteBaseURL() string {
	return GetEnv("FRONTEND_INVITE_URL", "https://davetli.app/invite/")
}

// DefaultQuotaAllocation kota tekilinin ilk tahsis değeri.
func DefaultQuotaAllocation() int {
	return GetEnvAsInt("DEFAULT_QUOTA_ALLOCATION", 50000)
}

// TicketCacheTTL bilet türü önbelleğinin Redis'te yaşam süresi.
func TicketCacheTTL() time.Duration {
	return GetEnvAsDuration("TICKET_CACHE_TTL", time.Hour)
}

// DefaultInviteValidity geçerlilik tarihi verilmeyen davetiyeler için süre.
func DefaultInviteValidity() time.Duration {
	return GetEnvAsDuration("DEFAULT_INVITE_VALIDITY", 30*24*time.Hour)
}
