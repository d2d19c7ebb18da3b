package services

import (
	"context"
	"testing"

	"davetli.app/models"
	"davetli.app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadValidationContextFromDB(t *testing.T) {
	db := newTestDB(t)
	redisClient := newTestRedis(t)
	seedTicketTypes(t, db, false)

	service := NewTicketTypeService(repositories.NewTicketTypeRepository(db), redisClient)

	globalUnique, cache, err := service.LoadValidationContext(context.Background())
	require.NoError(t, err)
	assert.False(t, globalUnique)
	require.Len(t, cache, 2)
	assert.True(t, cache["standard"].EnforceUniqueEmail)
	assert.False(t, cache["press"].EnforceUniqueEmail)
}

func TestLoadValidationContextUsesCache(t *testing.T) {
	db := newTestDB(t)
	redisClient := newTestRedis(t)
	seedTicketTypes(t, db, false)

	service := NewTicketTypeService(repositories.NewTicketTypeRepository(db), redisClient)

	_, _, err := service.LoadValidationContext(context.Background())
	require.NoError(t, err)

	// Önbellek doluyken DB'ye eklenen bilet türü görünmez, invalidate sonrası görünür.
	require.NoError(t, db.Create(&models.TicketType{Name: "Sponsor", IsActive: true}).Error)

	_, cache, err := service.LoadValidationContext(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, cache, "sponsor")

	service.InvalidateCache()
	_, cache, err = service.LoadValidationContext(context.Background())
	require.NoError(t, err)
	assert.Contains(t, cache, "sponsor")
}

func TestLoadValidationContextGlobalFlagIsFresh(t *testing.T) {
	db := newTestDB(t)
	redisClient := newTestRedis(t)
	seedTicketTypes(t, db, false)

	service := NewTicketTypeService(repositories.NewTicketTypeRepository(db), redisClient)

	globalUnique, _, err := service.LoadValidationContext(context.Background())
	require.NoError(t, err)
	require.False(t, globalUnique)

	// Bayrak önbelleklenmez; ayar değişikliği hemen etkili olur.
	require.NoError(t, db.Model(&models.InvitationSettings{}).Where("1 = 1").
		Update("enforce_global_unique", true).Error)

	globalUnique, _, err = service.LoadValidationContext(context.Background())
	require.NoError(t, err)
	assert.True(t, globalUnique)
}

func TestLoadValidationContextSkipsInactiveTickets(t *testing.T) {
	db := newTestDB(t)
	redisClient := newTestRedis(t)
	seedTicketTypes(t, db, false)
	require.NoError(t, db.Create(&models.TicketType{Name: "Eski", IsActive: false}).Error)

	service := NewTicketTypeService(repositories.NewTicketTypeRepository(db), redisClient)

	_, cache, err := service.LoadValidationContext(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, cache, "eski")
}
