package repositories

import (
	"errors"

	"davetli.app/models"

	"gorm.io/gorm"
)

// IInvitationStatsRepository global kota tekili için arayüz. Tüm okuma/yazma
// işlemleri çağıranın transaction'ı içinde ve kilitli yapılır; iki onayın
// aynı kotayı aynı anda geçmesi bu kilitle engellenir.
type IInvitationStatsRepository interface {
	GetOrCreateForUpdate(tx *gorm.DB, defaultAllocation int) (*models.InvitationStats, error)
	Save(tx *gorm.DB, stats *models.InvitationStats) error
}

// InvitationStatsRepository IInvitationStatsRepository arayüzünü uygular.
type InvitationStatsRepository struct{}

// NewInvitationStatsRepository yeni bir örnek oluşturur.
func NewInvitationStatsRepository() IInvitationStatsRepository {
	return &InvitationStatsRepository{}
}

// GetOrCreateForUpdate kota kaydını FOR UPDATE ile kilitleyerek okur;
// yoksa varsayılan tahsisle oluşturup kilitli okumayı tekrarlar.
func (r *InvitationStatsRepository) GetOrCreateForUpdate(tx *gorm.DB, defaultAllocation int) (*models.InvitationStats, error) {
	var stats models.InvitationStats
	err := forUpdate(tx).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stats = models.InvitationStats{
		AllocatedInvitations: defaultAllocation,
		RemainingInvitations: defaultAllocation,
	}
	if err := tx.Create(&stats).Error; err != nil {
		return nil, err
	}
	if err := forUpdate(tx).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *InvitationStatsRepository) Save(tx *gorm.DB, stats *models.InvitationStats) error {
	return tx.Model(stats).Updates(map[string]interface{}{
		"allocated_invitations": stats.AllocatedInvitations,
		"generated_invitations": stats.GeneratedInvitations,
		"remaining_invitations": stats.RemainingInvitations,
	}).Error
}

var _ IInvitationStatsRepository = (*InvitationStatsRepository)(nil)
