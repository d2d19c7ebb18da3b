package repositories

import (
	"context"
	"errors"

	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IBulkJobRepository toplu yükleme işi kayıtları için arayüz.
type IBulkJobRepository interface {
	Create(ctx context.Context, job *models.BulkUploadJob) error
	FindByID(ctx context.Context, jobID string) (*models.BulkUploadJob, error)
	FindByIDForUser(ctx context.Context, jobID string, userID uint) (*models.BulkUploadJob, error)
	// FindByIDForUpdate işi SELECT ... FOR UPDATE ile kilitleyerek okur.
	// Verilen tx içinde çağrılmalıdır.
	FindByIDForUpdate(tx *gorm.DB, jobID string, userID uint) (*models.BulkUploadJob, error)
	UpdateFields(ctx context.Context, jobID string, fields map[string]interface{}) error
	SetStatus(ctx context.Context, jobID, status string) error
	SetFailed(ctx context.Context, jobID, errorNote string) error
}

// BulkJobRepository IBulkJobRepository arayüzünü uygular.
type BulkJobRepository struct {
	db *gorm.DB
}

// NewBulkJobRepository yeni bir BulkJobRepository örneği oluşturur.
func NewBulkJobRepository(db *gorm.DB) IBulkJobRepository {
	return &BulkJobRepository{db: db}
}

func (r *BulkJobRepository) Create(ctx context.Context, job *models.BulkUploadJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		configslog.Log.Error("BulkJobRepository.Create: DB hatası", zap.Error(err))
		return err
	}
	return nil
}

func (r *BulkJobRepository) FindByID(ctx context.Context, jobID string) (*models.BulkUploadJob, error) {
	var job models.BulkUploadJob
	err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("BulkJobRepository.FindByID: DB hatası", zap.String("job_id", jobID), zap.Error(err))
		return nil, err
	}
	return &job, nil
}

func (r *BulkJobRepository) FindByIDForUser(ctx context.Context, jobID string, userID uint) (*models.BulkUploadJob, error) {
	var job models.BulkUploadJob
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", jobID, userID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("BulkJobRepository.FindByIDForUser: DB hatası", zap.String("job_id", jobID), zap.Error(err))
		return nil, err
	}
	return &job, nil
}

func (r *BulkJobRepository) FindByIDForUpdate(tx *gorm.DB, jobID string, userID uint) (*models.BulkUploadJob, error) {
	var job models.BulkUploadJob
	err := forUpdate(tx).
		Where("id = ? AND user_id = ?", jobID, userID).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *BulkJobRepository) UpdateFields(ctx context.Context, jobID string, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&models.BulkUploadJob{}).Where("id = ?", jobID).Updates(fields).Error
	if err != nil {
		configslog.Log.Error("BulkJobRepository.UpdateFields: DB hatası", zap.String("job_id", jobID), zap.Error(err))
	}
	return err
}

func (r *BulkJobRepository) SetStatus(ctx context.Context, jobID, status string) error {
	return r.UpdateFields(ctx, jobID, map[string]interface{}{"status": status})
}

func (r *BulkJobRepository) SetFailed(ctx context.Context, jobID, errorNote string) error {
	return r.UpdateFields(ctx, jobID, map[string]interface{}{
		"status":     models.BulkStatusFailed,
		"error_note": errorNote,
	})
}

var _ IBulkJobRepository = (*BulkJobRepository)(nil)
