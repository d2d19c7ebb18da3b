package services

import (
	"context"
	"errors"
	"time"

	"davetli.app/configs"
	"davetli.app/configs/configslog"
	"davetli.app/models"
	"davetli.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IBulkConfirmService önizlemesi hazır bir işin davetiye üretimine
// aktarılmasını yönetir.
type IBulkConfirmService interface {
	// Confirm kota rezervasyonunu ve durum geçişini tek transaction'da yapar,
	// ardından üretim görevini kuyruğa atar. preview_ready dışındaki durumlar
	// ErrJobNotReady, yetersiz kota *QuotaExceededError döner.
	Confirm(ctx context.Context, userID uint, jobID string, expireDate *time.Time, defaultMessage string) (*models.BulkUploadJob, error)
}

// BulkConfirmService IBulkConfirmService arayüzünü uygular.
type BulkConfirmService struct {
	db         *gorm.DB
	jobs       repositories.IBulkJobRepository
	stats      repositories.IInvitationStatsRepository
	staging    repositories.IStagingRepository
	dispatcher IBulkDispatcher
}

// NewBulkConfirmService yeni bir BulkConfirmService örneği oluşturur.
func NewBulkConfirmService(
	db *gorm.DB,
	jobs repositories.IBulkJobRepository,
	stats repositories.IInvitationStatsRepository,
	staging repositories.IStagingRepository,
	dispatcher IBulkDispatcher,
) *BulkConfirmService {
	return &BulkConfirmService{db: db, jobs: jobs, stats: stats, staging: staging, dispatcher: dispatcher}
}

func (s *BulkConfirmService) Confirm(ctx context.Context, userID uint, jobID string, expireDate *time.Time, defaultMessage string) (*models.BulkUploadJob, error) {
	var job *models.BulkUploadJob

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		job, txErr = s.jobs.FindByIDForUpdate(tx, jobID, userID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrNotFound) {
				return ErrJobNotFound
			}
			return txErr
		}

		// Kilitli okuma sayesinde çifte onay yarışı burada çözülür: ikinci
		// onay işin artık preview_ready olmadığını görür.
		if job.Status != models.BulkStatusPreviewReady {
			return ErrJobNotReady
		}
		if job.ValidCount == 0 {
			return ErrNoValidRows
		}

		quota, txErr := s.stats.GetOrCreateForUpdate(tx, configs.DefaultQuotaAllocation())
		if txErr != nil {
			return txErr
		}
		if quota.RemainingInvitations < job.ValidCount {
			return &QuotaExceededError{
				Remaining: quota.RemainingInvitations,
				Requested: job.ValidCount,
			}
		}

		return tx.Model(&models.BulkUploadJob{}).
			Where("id = ?", jobID).
			Update("status", models.BulkStatusConfirmed).Error
	})
	if err != nil {
		return nil, err
	}

	job.Status = models.BulkStatusConfirmed
	_ = s.staging.SetStatus(jobID, models.BulkStatusConfirmed)

	// Kuyruk kalıcı olduğu için commit sonrası enqueue hatası işi failed
	// durumuna taşır; kullanıcı yeniden onaylayamaz ama durumu görür.
	if err := s.dispatcher.EnqueueGenerate(jobID, expireDate, defaultMessage); err != nil {
		configslog.Log.Error("Üretim görevi kuyruğa atılamadı", zap.String("job_id", jobID), zap.Error(err))
		_ = s.jobs.SetFailed(ctx, jobID, "Üretim görevi kuyruğa atılamadı")
		_ = s.staging.SetStatus(jobID, models.BulkStatusFailed)
		return nil, ErrDispatchFailed
	}

	configslog.SLog.Infof("İş onaylandı: %s, %d geçerli satır üretime gönderildi", jobID, job.ValidCount)
	return job, nil
}

var _ IBulkConfirmService = (*BulkConfirmService)(nil)
