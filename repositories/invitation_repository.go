package repositories

import (
	"context"
	"strings"

	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GuestKey mevcut davetiyelerden türetilen (e-posta, bilet adı) çifti.
// Mükerrer kontrolünde kalıcı taban olarak kullanılır; alanlar küçük harftir.
type GuestKey struct {
	Email      string
	TicketName string
}

// IInvitationRepository davetiye veritabanı işlemleri için arayüz.
type IInvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	// CreateInBatchesIgnoreConflicts çakışmaları tek tek atlayarak toplu ekler
	// ve gerçekten yazılan kayıt sayısını döner.
	CreateInBatchesIgnoreConflicts(ctx context.Context, invitations []models.Invitation, batchSize int) (int64, error)
	ListGuestKeysByUser(ctx context.Context, userID uint) ([]GuestKey, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

// InvitationRepository IInvitationRepository arayüzünü uygular.
type InvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository yeni bir InvitationRepository örneği oluşturur.
func NewInvitationRepository(db *gorm.DB) IInvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		return err
	}
	return nil
}

func (r *InvitationRepository) CreateInBatchesIgnoreConflicts(ctx context.Context, invitations []models.Invitation, batchSize int) (int64, error) {
	if len(invitations) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&invitations, batchSize)
	if result.Error != nil {
		configslog.Log.Error("InvitationRepository.CreateInBatchesIgnoreConflicts: toplu ekleme hatası",
			zap.Int("count", len(invitations)), zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListGuestKeysByUser kullanıcının mevcut davetiyelerinden (e-posta, bilet adı)
// çiftlerini küçük harfe çevirerek döner. Doğrulama ve üretim aşamaları bu
// listeyi bir kez yükleyip satır başına DB sorgusundan kaçınır.
func (r *InvitationRepository) ListGuestKeysByUser(ctx context.Context, userID uint) ([]GuestKey, error) {
	type rowResult struct {
		GuestEmail string
		Name       string
	}
	var rows []rowResult
	err := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Select("invitations.guest_email, ticket_types.name").
		Joins("LEFT JOIN ticket_types ON ticket_types.id = invitations.ticket_type_id").
		Where("invitations.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		configslog.Log.Error("InvitationRepository.ListGuestKeysByUser: DB hatası", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	keys := make([]GuestKey, 0, len(rows))
	for _, row := range rows {
		if row.GuestEmail == "" {
			continue
		}
		keys = append(keys, GuestKey{
			Email:      strings.ToLower(row.GuestEmail),
			TicketName: strings.ToLower(row.Name),
		})
	}
	return keys, nil
}

func (r *InvitationRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invitation{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		configslog.Log.Error("InvitationRepository.CountByUserID: DB hatası", zap.Uint("user_id", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

var _ IInvitationRepository = (*InvitationRepository)(nil)
