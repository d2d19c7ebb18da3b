package services

import (
	"context"
	"testing"
	"time"

	"davetli.app/models"
	"davetli.app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	created int
	pending int
	calls   int
}

func (n *fakeNotifier) BulkGenerated(ctx context.Context, job *models.BulkUploadJob, created, pending int) {
	n.calls++
	n.created = created
	n.pending = pending
}

type generateFixture struct {
	service  *BulkGenerateService
	jobs     repositories.IBulkJobRepository
	staging  repositories.IStagingRepository
	dedup    IDeduplicationService
	notifier *fakeNotifier
	db       *gorm.DB
}

func newGenerateFixture(t *testing.T, globalUnique bool) *generateFixture {
	t.Helper()
	db := newTestDB(t)
	redisClient := newTestRedis(t)
	seedTicketTypes(t, db, globalUnique)
	seedQuota(t, db, 100, 0)

	jobRepo := repositories.NewBulkJobRepository(db)
	stagingRepo := repositories.NewStagingRepository(redisClient)
	ticketService := NewTicketTypeService(repositories.NewTicketTypeRepository(db), redisClient)
	dedup := NewDeduplicationService(redisClient, NewBloomManager(), "test", time.Hour)
	notifier := &fakeNotifier{}

	service := NewBulkGenerateService(db, jobRepo,
		repositories.NewInvitationRepository(db),
		repositories.NewInvitationStatsRepository(),
		repositories.NewDuplicateRecordRepository(db),
		stagingRepo, ticketService, dedup, notifier)

	return &generateFixture{
		service: service, jobs: jobRepo, staging: stagingRepo,
		dedup: dedup, notifier: notifier, db: db,
	}
}

func (f *generateFixture) createConfirmedJob(t *testing.T, rows []models.StagedRow) *models.BulkUploadJob {
	t.Helper()
	valid := 0
	for _, row := range rows {
		if row.Status == models.RowStatusValid {
			valid++
		}
	}
	job := &models.BulkUploadJob{
		UserID:     1,
		FileName:   "guests.csv",
		Status:     models.BulkStatusConfirmed,
		TotalCount: len(rows),
		ValidCount: valid,
	}
	require.NoError(t, f.jobs.Create(context.Background(), job))
	for _, row := range rows {
		require.NoError(t, f.staging.PushRow(job.ID, row))
	}
	return job
}

func validStagedRow(id int, email, ticket string) models.StagedRow {
	return models.StagedRow{
		ID: id, RowNumber: id,
		GuestName:  "Test Misafir",
		GuestEmail: email,
		TicketType: ticket,
		Status:     models.RowStatusValid,
		Errors:     map[string]string{},
	}
}

func TestGenerateHappyPath(t *testing.T) {
	f := newGenerateFixture(t, false)
	ctx := context.Background()

	job := f.createConfirmedJob(t, []models.StagedRow{
		validStagedRow(1, "a@example.com", "standard"),
		validStagedRow(2, "b@example.com", "standard"),
		{ID: 3, RowNumber: 3, GuestEmail: "bozuk", Status: models.RowStatusInvalid},
	})

	require.NoError(t, f.service.Generate(ctx, job.ID, nil, "Hoş geldiniz"))

	var invitations []models.Invitation
	require.NoError(t, f.db.Find(&invitations).Error)
	require.Len(t, invitations, 2)
	for _, invitation := range invitations {
		assert.Equal(t, models.SourceBulk, invitation.SourceType)
		assert.Equal(t, models.InvitationStatusActive, invitation.Status)
		assert.True(t, invitation.IsSent)
		assert.Equal(t, 1, invitation.UsageLimit)
		assert.NotEmpty(t, invitation.LinkCode)
		assert.Contains(t, invitation.InvitationURL, invitation.LinkCode)
		assert.Equal(t, "Hoş geldiniz", invitation.PersonalMessage)
	}

	var quota models.InvitationStats
	require.NoError(t, f.db.First(&quota).Error)
	assert.Equal(t, 2, quota.GeneratedInvitations)
	assert.Equal(t, 98, quota.RemainingInvitations)

	stored, err := f.jobs.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BulkStatusCompleted, stored.Status)

	// Staging satırları tamamlanan iş için temizlenir.
	rows, err := f.staging.RangeRows(job.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Equal(t, 1, f.notifier.calls)
	assert.Equal(t, 2, f.notifier.created)
	assert.Equal(t, 0, f.notifier.pending)
}

func TestGenerateDropsDedupClaimedRows(t *testing.T) {
	f := newGenerateFixture(t, false)
	ctx := context.Background()

	// Başka bir yüklemenin sahiplendiği anahtar bu işte mükerrer sayılır.
	dup, err := f.dedup.IsDuplicate(1, "a@example.com", "Standard", models.ScopeTicket)
	require.NoError(t, err)
	require.False(t, dup)

	job := f.createConfirmedJob(t, []models.StagedRow{
		validStagedRow(1, "a@example.com", "standard"),
		validStagedRow(2, "b@example.com", "standard"),
	})

	require.NoError(t, f.service.Generate(ctx, job.ID, nil, ""))

	var invitations []models.Invitation
	require.NoError(t, f.db.Find(&invitations).Error)
	require.Len(t, invitations, 1)
	assert.Equal(t, "b@example.com", invitations[0].GuestEmail)

	var records []models.DuplicateRecord
	require.NoError(t, f.db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, models.DetectionSourceDedupService, records[0].DetectionSource)
	assert.Equal(t, models.ScopeTicket, records[0].Scope)
	assert.Equal(t, "a@example.com", records[0].GuestEmail)
	require.NotNil(t, records[0].JobID)
	assert.Equal(t, job.ID, *records[0].JobID)

	// Düşen satır kotadan harcanmaz.
	var quota models.InvitationStats
	require.NoError(t, f.db.First(&quota).Error)
	assert.Equal(t, 1, quota.GeneratedInvitations)
}

func TestGenerateDropsExistingDBRows(t *testing.T) {
	f := newGenerateFixture(t, false)
	ctx := context.Background()

	// Doğrulama ile üretim arasında tekil eklenen davetiye son savunma
	// hattında yakalanır.
	var standard models.TicketType
	require.NoError(t, f.db.Where("name = ?", "Standard").First(&standard).Error)
	require.NoError(t, f.db.Create(&models.Invitation{
		UserID: 1, GuestName: "Var Olan", GuestEmail: "a@example.com",
		TicketTypeID: standard.ID, LinkCode: "mevcut-kod",
		ExpireDate: time.Now().Add(24 * time.Hour),
		SourceType: models.SourcePersonal, Status: models.InvitationStatusActive,
	}).Error)

	job := f.createConfirmedJob(t, []models.StagedRow{
		validStagedRow(1, "a@example.com", "standard"),
	})

	require.NoError(t, f.service.Generate(ctx, job.ID, nil, ""))

	var count int64
	require.NoError(t, f.db.Model(&models.Invitation{}).Where("source_type = ?", models.SourceBulk).Count(&count).Error)
	assert.Zero(t, count)

	var records []models.DuplicateRecord
	require.NoError(t, f.db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, models.DetectionSourceDBCheck, records[0].DetectionSource)
}

func TestGenerateNoneScopeRowsStillCreated(t *testing.T) {
	f := newGenerateFixture(t, false)
	ctx := context.Background()

	// Press bileti tekillik zorunlu değil; aynı e-posta iki kez üretilebilir.
	job := f.createConfirmedJob(t, []models.StagedRow{
		validStagedRow(1, "a@example.com", "press"),
	})
	require.NoError(t, f.service.Generate(ctx, job.ID, nil, ""))

	job2 := f.createConfirmedJob(t, []models.StagedRow{
		validStagedRow(1, "a@example.com", "press"),
	})
	require.NoError(t, f.service.Generate(ctx, job2.ID, nil, ""))

	var count int64
	require.NoError(t, f.db.Model(&models.Invitation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestGenerateCompletedJobIsNoop(t *testing.T) {
	f := newGenerateFixture(t, false)
	ctx := context.Background()

	job := &models.BulkUploadJob{UserID: 1, FileName: "guests.csv", Status: models.BulkStatusCompleted}
	require.NoError(t, f.jobs.Create(ctx, job))

	require.NoError(t, f.service.Generate(ctx, job.ID, nil, ""))

	var count int64
	require.NoError(t, f.db.Model(&models.Invitation{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, f.notifier.calls)
}

func TestGenerateRejectsUnconfirmedJob(t *testing.T) {
	f := newGenerateFixture(t, false)
	ctx := context.Background()

	job := &models.BulkUploadJob{UserID: 1, FileName: "guests.csv", Status: models.BulkStatusPreviewReady}
	require.NoError(t, f.jobs.Create(ctx, job))

	err := f.service.Generate(ctx, job.ID, nil, "")
	assert.ErrorIs(t, err, ErrJobNotReady)
}

func TestGenerateUsesProvidedExpireDate(t *testing.T) {
	f := newGenerateFixture(t, false)
	ctx := context.Background()

	expire := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	job := f.createConfirmedJob(t, []models.StagedRow{
		validStagedRow(1, "a@example.com", "standard"),
	})
	require.NoError(t, f.service.Generate(ctx, job.ID, &expire, ""))

	var invitation models.Invitation
	require.NoError(t, f.db.First(&invitation).Error)
	assert.Equal(t, expire.Format("2006-01-02"), invitation.ExpireDate.Format("2006-01-02"))
}
