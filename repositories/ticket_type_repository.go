package repositories

import (
	"context"
	"errors"

	"davetli.app/configs/configslog"
	"davetli.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ITicketTypeRepository bilet türü ve global ayar okumaları için arayüz.
type ITicketTypeRepository interface {
	FindAll(ctx context.Context) ([]models.TicketType, error)
	FindAllActive(ctx context.Context) ([]models.TicketType, error)
	FindByName(ctx context.Context, name string) (*models.TicketType, error)
	GetSettings(ctx context.Context) (*models.InvitationSettings, error)
}

// TicketTypeRepository ITicketTypeRepository arayüzünü uygular.
type TicketTypeRepository struct {
	db *gorm.DB
}

// NewTicketTypeRepository yeni bir TicketTypeRepository örneği oluşturur.
func NewTicketTypeRepository(db *gorm.DB) ITicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

func (r *TicketTypeRepository) FindAll(ctx context.Context) ([]models.TicketType, error) {
	var types []models.TicketType
	if err := r.db.WithContext(ctx).Order("name").Find(&types).Error; err != nil {
		configslog.Log.Error("TicketTypeRepository.FindAll: DB hatası", zap.Error(err))
		return nil, err
	}
	return types, nil
}

func (r *TicketTypeRepository) FindAllActive(ctx context.Context) ([]models.TicketType, error) {
	var types []models.TicketType
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&types).Error; err != nil {
		configslog.Log.Error("TicketTypeRepository.FindAllActive: DB hatası", zap.Error(err))
		return nil, err
	}
	return types, nil
}

// FindByName büyük/küçük harf duyarsız isim araması yapar.
func (r *TicketTypeRepository) FindByName(ctx context.Context, name string) (*models.TicketType, error) {
	var ticketType models.TicketType
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&ticketType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("TicketTypeRepository.FindByName: DB hatası", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return &ticketType, nil
}

// GetSettings global ayar kaydını döner; hiç yoksa varsayılan (kapalı) döner.
func (r *TicketTypeRepository) GetSettings(ctx context.Context) (*models.InvitationSettings, error) {
	var settings models.InvitationSettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.InvitationSettings{EnforceGlobalUnique: false}, nil
		}
		configslog.Log.Error("TicketTypeRepository.GetSettings: DB hatası", zap.Error(err))
		return nil, err
	}
	return &settings, nil
}

var _ ITicketTypeRepository = (*TicketTypeRepository)(nil)
