package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"davetli.app/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInvitationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.TicketType{}, &models.Invitation{}))
	require.NoError(t, db.Create(&models.TicketType{Name: "Standard", IsActive: true, EnforceUniqueEmail: true}).Error)
	require.NoError(t, db.Create(&models.TicketType{Name: "Press", IsActive: true}).Error)
	return db
}

func bulkInvitation(userID uint, ticketTypeID uint, email string) models.Invitation {
	return models.Invitation{
		UserID:       userID,
		GuestName:    "Test Misafir",
		GuestEmail:   email,
		TicketTypeID: ticketTypeID,
		ExpireDate:   time.Now().AddDate(0, 1, 0),
		SourceType:   models.SourceBulk,
		LinkCode:     uuid.NewString(),
		UsageLimit:   1,
		Status:       models.InvitationStatusActive,
	}
}

func TestCreateInBatchesIgnoreConflicts(t *testing.T) {
	db := newInvitationTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	first := bulkInvitation(1, 1, "ali@example.com")
	require.NoError(t, repo.Create(ctx, &first))

	// İkinci kayıt ilkiyle aynı link koduna sahip; çakışma sessizce atlanmalı.
	batch := []models.Invitation{
		bulkInvitation(1, 1, "ayse@example.com"),
		bulkInvitation(1, 1, "mehmet@example.com"),
	}
	batch[1].LinkCode = first.LinkCode

	written, err := repo.CreateInBatchesIgnoreConflicts(ctx, batch, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), written)

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCreateInBatchesIgnoreConflictsEmptySlice(t *testing.T) {
	db := newInvitationTestDB(t)
	repo := NewInvitationRepository(db)

	written, err := repo.CreateInBatchesIgnoreConflicts(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Zero(t, written)
}

func TestCreateInBatchesIgnoreConflictsSplitsBatches(t *testing.T) {
	db := newInvitationTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	batch := make([]models.Invitation, 0, 7)
	for i := 0; i < 7; i++ {
		batch = append(batch, bulkInvitation(1, 1, fmt.Sprintf("misafir%d@example.com", i)))
	}

	written, err := repo.CreateInBatchesIgnoreConflicts(ctx, batch, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), written)
}

func TestListGuestKeysByUser(t *testing.T) {
	db := newInvitationTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	first := bulkInvitation(1, 1, "Ali@Example.com")
	second := bulkInvitation(1, 2, "ayse@example.com")
	other := bulkInvitation(2, 1, "baska@example.com")
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))
	require.NoError(t, repo.Create(ctx, &other))

	keys, err := repo.ListGuestKeysByUser(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []GuestKey{
		{Email: "ali@example.com", TicketName: "standard"},
		{Email: "ayse@example.com", TicketName: "press"},
	}, keys)
}

func TestListGuestKeysByUserSkipsEmptyEmails(t *testing.T) {
	db := newInvitationTestDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	noEmail := bulkInvitation(1, 1, "")
	require.NoError(t, repo.Create(ctx, &noEmail))

	keys, err := repo.ListGuestKeysByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
