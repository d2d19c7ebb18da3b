package repositories

import (
	"context"

	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IDuplicateRecordRepository mükerrer denetim kayıtları için arayüz.
type IDuplicateRecordRepository interface {
	Create(ctx context.Context, record *models.DuplicateRecord) error
	CountByJob(ctx context.Context, jobID string) (int64, error)
}

// DuplicateRecordRepository IDuplicateRecordRepository arayüzünü uygular.
type DuplicateRecordRepository struct {
	db *gorm.DB
}

// NewDuplicateRecordRepository yeni bir örnek oluşturur.
func NewDuplicateRecordRepository(db *gorm.DB) IDuplicateRecordRepository {
	return &DuplicateRecordRepository{db: db}
}

// Create denetim kaydını yazar. Denetim izi ana akışı durdurmamalıdır;
// hata loglanır ve çağırana da döner, karar çağıranındır.
func (r *DuplicateRecordRepository) Create(ctx context.Context, record *models.DuplicateRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		configslog.Log.Error("DuplicateRecordRepository.Create: DB hatası",
			zap.String("guest_email", record.GuestEmail), zap.Error(err))
		return err
	}
	return nil
}

func (r *DuplicateRecordRepository) CountByJob(ctx context.Context, jobID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DuplicateRecord{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}

var _ IDuplicateRecordRepository = (*DuplicateRecordRepository)(nil)
