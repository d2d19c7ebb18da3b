package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"davetli.app/configs"
	"davetli.app/configs/configslog"
	"davetli.app/models"
	"davetli.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IBulkGenerateService onaylanmış bir işin staging satırlarını kalıcı
// davetiyelere dönüştürür.
type IBulkGenerateService interface {
	Generate(ctx context.Context, jobID string, expireDate *time.Time, defaultMessage string) error
}

// BulkGenerateService IBulkGenerateService arayüzünü uygular.
type BulkGenerateService struct {
	db          *gorm.DB
	jobs        repositories.IBulkJobRepository
	invitations repositories.IInvitationRepository
	stats       repositories.IInvitationStatsRepository
	duplicates  repositories.IDuplicateRecordRepository
	staging     repositories.IStagingRepository
	tickets     ITicketTypeService
	dedup       IDeduplicationService
	notifier    INotifier

	createBatchSize int
	baseURL         string
}

// NewBulkGenerateService yeni bir BulkGenerateService örneği oluşturur.
func NewBulkGenerateService(
	db *gorm.DB,
	jobs repositories.IBulkJobRepository,
	invitations repositories.IInvitationRepository,
	stats repositories.IInvitationStatsRepository,
	duplicates repositories.IDuplicateRecordRepository,
	staging repositories.IStagingRepository,
	tickets ITicketTypeService,
	dedup IDeduplicationService,
	notifier INotifier,
) *BulkGenerateService {
	return &BulkGenerateService{
		db:              db,
		jobs:            jobs,
		invitations:     invitations,
		stats:           stats,
		duplicates:      duplicates,
		staging:         staging,
		tickets:         tickets,
		dedup:           dedup,
		notifier:        notifier,
		createBatchSize: configs.BulkCreateBatchSize(),
		baseURL:         configs.InviteBaseURL(),
	}
}

func (s *BulkGenerateService) Generate(ctx context.Context, jobID string, expireDate *time.Time, defaultMessage string) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrJobNotFound
		}
		return err
	}

	// En-az-bir-kez teslimatta tekrarlanan görev güvenli olmalı: tamamlanmış
	// iş no-op, confirmed/sending dışındaki her durum reddedilir.
	switch job.Status {
	case models.BulkStatusCompleted:
		configslog.SLog.Warnf("Üretim atlandı: iş %s zaten tamamlanmış", jobID)
		return nil
	case models.BulkStatusConfirmed, models.BulkStatusSending:
	default:
		return ErrJobNotReady
	}

	if err := s.run(ctx, job, expireDate, defaultMessage); err != nil {
		configslog.Log.Error("Toplu üretim başarısız", zap.String("job_id", jobID), zap.Error(err))
		_ = s.jobs.SetFailed(ctx, jobID, err.Error())
		_ = s.staging.SetStatus(jobID, models.BulkStatusFailed)
		return err
	}
	return nil
}

func (s *BulkGenerateService) run(ctx context.Context, job *models.BulkUploadJob, expireDate *time.Time, defaultMessage string) error {
	jobID := job.ID

	if err := s.jobs.SetStatus(ctx, jobID, models.BulkStatusSending); err != nil {
		return err
	}
	if err := s.staging.SetStatus(jobID, models.BulkStatusSending); err != nil {
		return err
	}

	rows, err := s.staging.RangeRows(jobID)
	if err != nil {
		return err
	}

	globalUnique, ticketCache, err := s.tickets.LoadValidationContext(ctx)
	if err != nil {
		return err
	}
	// Son savunma hattı: doğrulama ile üretim arasında tekil olarak eklenmiş
	// davetiyeler bu kümede görünür.
	existingKeys, err := s.invitations.ListGuestKeysByUser(ctx, job.UserID)
	if err != nil {
		return err
	}
	existingGlobal := make(map[string]struct{}, len(existingKeys))
	existingTicket := make(map[repositories.GuestKey]struct{}, len(existingKeys))
	for _, key := range existingKeys {
		existingGlobal[key.Email] = struct{}{}
		existingTicket[key] = struct{}{}
	}

	resolvedExpire := s.resolveExpireDate(expireDate)
	createdTotal, pendingTotal := 0, 0

	for start := 0; start < len(rows); start += s.createBatchSize {
		end := start + s.createBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		batch := make([]models.Invitation, 0, end-start)
		for i := start; i < end; i++ {
			row := rows[i]
			if row.Status != models.RowStatusValid {
				continue
			}

			entry, ok := ticketCache[strings.ToLower(strings.TrimSpace(row.TicketType))]
			if !ok {
				// Doğrulamadan sonra pasifleştirilmiş bilet türü; satır
				// denetim izi bırakılarak düşürülür.
				s.recordDuplicate(ctx, job, row, nil, models.DetectionSourceDBCheck, models.ScopeNone,
					"Bilet türü üretim sırasında artık aktif değil")
				continue
			}

			scope := ResolveDedupScope(entry.Name, ticketCache, globalUnique)
			if scope != models.ScopeNone {
				duplicate, dErr := s.dedup.IsDuplicate(job.UserID, row.GuestEmail, entry.Name, scope)
				if dErr != nil {
					// Dedup altyapısı yoksa sessizce mükerrer üretmek yerine
					// iş failed yapılır.
					return dErr
				}
				if duplicate {
					s.recordDuplicate(ctx, job, row, &entry.ID, models.DetectionSourceDedupService, scope,
						"Dedup servisi kaydı daha önce sahiplenilmiş buldu")
					continue
				}
				if s.existsInDB(row, entry.Name, scope, existingGlobal, existingTicket) {
					s.recordDuplicate(ctx, job, row, &entry.ID, models.DetectionSourceDBCheck, scope,
						"Davetiye veritabanında zaten mevcut")
					continue
				}
			}

			batch = append(batch, s.buildInvitation(job.UserID, row, entry.ID, resolvedExpire, defaultMessage))
		}

		if len(batch) == 0 {
			continue
		}

		created, pending, err := s.insertBatch(ctx, batch)
		if err != nil {
			return err
		}
		createdTotal += created
		pendingTotal += pending

		// Kota her chunk sonrası kilit altında güncellenir; büyük bir dosya
		// sırasında kalan kota gerçeğe yakın kalır.
		if err := s.applyQuota(ctx, created); err != nil {
			return err
		}
	}

	if err := s.jobs.SetStatus(ctx, jobID, models.BulkStatusCompleted); err != nil {
		return err
	}
	if err := s.staging.SetStatus(jobID, models.BulkStatusCompleted); err != nil {
		return err
	}
	if err := s.staging.DeleteRows(jobID); err != nil {
		configslog.Log.Warn("Staging satırları temizlenemedi", zap.String("job_id", jobID), zap.Error(err))
	}

	s.notifier.BulkGenerated(ctx, job, createdTotal, pendingTotal)
	configslog.SLog.Infof("Toplu üretim tamamlandı: iş %s, %d davetiye oluşturuldu, %d beklemede", jobID, createdTotal, pendingTotal)
	return nil
}

func (s *BulkGenerateService) resolveExpireDate(expireDate *time.Time) time.Time {
	if expireDate != nil {
		return *expireDate
	}
	return time.Now().Add(configs.DefaultInviteValidity())
}

func (s *BulkGenerateService) buildInvitation(userID uint, row models.StagedRow, ticketTypeID uint, expireDate time.Time, defaultMessage string) models.Invitation {
	message := strings.TrimSpace(row.PersonalMessage)
	if message == "" {
		message = defaultMessage
	}
	code := uuid.NewString()
	return models.Invitation{
		UserID:          userID,
		GuestName:       strings.TrimSpace(row.GuestName),
		GuestEmail:      strings.ToLower(strings.TrimSpace(row.GuestEmail)),
		CompanyName:     strings.TrimSpace(row.Company),
		PersonalMessage: message,
		TicketTypeID:    ticketTypeID,
		ExpireDate:      expireDate,
		SourceType:      models.SourceBulk,
		LinkCode:        code,
		InvitationURL:   s.baseURL + code,
		UsageLimit:      1,
		Status:          models.InvitationStatusActive,
		IsSent:          true,
	}
}

// insertBatch toplu yazmayı dener; toplu yazma başarısız olursa satır satır
// geri düşer ve yine yazılamayanları pending durumuyla saklar.
func (s *BulkGenerateService) insertBatch(ctx context.Context, batch []models.Invitation) (created, pending int, err error) {
	rowsAffected, err := s.invitations.CreateInBatchesIgnoreConflicts(ctx, batch, len(batch))
	if err == nil {
		return int(rowsAffected), 0, nil
	}

	configslog.Log.Warn("Toplu yazma başarısız, satır bazlı geri düşülüyor", zap.Error(err))
	for i := range batch {
		invitation := batch[i]
		if createErr := s.invitations.Create(ctx, &invitation); createErr != nil {
			fallback := batch[i]
			fallback.Status = models.InvitationStatusPending
			fallback.IsSent = false
			fallback.LinkCode = uuid.NewString()
			fallback.InvitationURL = s.baseURL + fallback.LinkCode
			if pendingErr := s.invitations.Create(ctx, &fallback); pendingErr != nil {
				configslog.Log.Error("Satır pending olarak da yazılamadı",
					zap.String("guest_email", batch[i].GuestEmail), zap.Error(pendingErr))
				continue
			}
			pending++
			continue
		}
		created++
	}
	return created, pending, nil
}

func (s *BulkGenerateService) existsInDB(row models.StagedRow, ticketName, scope string, existingGlobal map[string]struct{}, existingTicket map[repositories.GuestKey]struct{}) bool {
	email := strings.ToLower(strings.TrimSpace(row.GuestEmail))
	if scope == models.ScopeGlobal {
		_, ok := existingGlobal[email]
		return ok
	}
	_, ok := existingTicket[repositories.GuestKey{Email: email, TicketName: strings.ToLower(ticketName)}]
	return ok
}

func (s *BulkGenerateService) recordDuplicate(ctx context.Context, job *models.BulkUploadJob, row models.StagedRow, ticketTypeID *uint, source, scope, reason string) {
	record := &models.DuplicateRecord{
		UserID:          job.UserID,
		JobID:           &job.ID,
		RowNumber:       row.RowNumber,
		GuestEmail:      strings.ToLower(strings.TrimSpace(row.GuestEmail)),
		TicketTypeID:    ticketTypeID,
		DetectionSource: source,
		Scope:           scope,
		Reason:          reason,
	}
	// Denetim kaydı üretimi durdurmaz.
	if err := s.duplicates.Create(ctx, record); err != nil {
		configslog.Log.Warn("Mükerrer denetim kaydı yazılamadı", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *BulkGenerateService) applyQuota(ctx context.Context, created int) error {
	if created == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quota, err := s.stats.GetOrCreateForUpdate(tx, configs.DefaultQuotaAllocation())
		if err != nil {
			return err
		}
		quota.GeneratedInvitations += created
		quota.UpdateRemaining()
		return s.stats.Save(tx, quota)
	})
}

var _ IBulkGenerateService = (*BulkGenerateService)(nil)
