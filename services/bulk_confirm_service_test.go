package services

import (
	"context"
	"errors"
	"testing"

	"davetli.app/models"
	"davetli.app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConfirmService(t *testing.T, dispatcher IBulkDispatcher) (*BulkConfirmService, repositories.IBulkJobRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	redisClient := newTestRedis(t)

	jobRepo := repositories.NewBulkJobRepository(db)
	service := NewBulkConfirmService(db, jobRepo,
		repositories.NewInvitationStatsRepository(),
		repositories.NewStagingRepository(redisClient),
		dispatcher)
	return service, jobRepo, db
}

func createPreviewJob(t *testing.T, jobRepo repositories.IBulkJobRepository, userID uint, validCount int) *models.BulkUploadJob {
	t.Helper()
	job := &models.BulkUploadJob{
		UserID:     userID,
		FileName:   "guests.csv",
		Status:     models.BulkStatusPreviewReady,
		TotalCount: validCount + 1,
		ValidCount: validCount,
	}
	require.NoError(t, jobRepo.Create(context.Background(), job))
	return job
}

func TestConfirmHappyPath(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service, jobRepo, db := newConfirmService(t, dispatcher)
	seedQuota(t, db, 100, 0)
	job := createPreviewJob(t, jobRepo, 1, 10)

	confirmed, err := service.Confirm(context.Background(), 1, job.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, models.BulkStatusConfirmed, confirmed.Status)
	assert.Equal(t, []string{job.ID}, dispatcher.generateCalls)

	stored, err := jobRepo.FindByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BulkStatusConfirmed, stored.Status)
}

func TestConfirmQuotaExceeded(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service, jobRepo, db := newConfirmService(t, dispatcher)
	seedQuota(t, db, 100, 60) // kalan 40
	job := createPreviewJob(t, jobRepo, 1, 90)

	_, err := service.Confirm(context.Background(), 1, job.ID, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var quotaErr *QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 40, quotaErr.Remaining)
	assert.Equal(t, 90, quotaErr.Requested)
	assert.Equal(t, 50, quotaErr.Shortfall())

	// Reddedilen onay işi değiştirmez ve kuyruğa görev atmaz.
	stored, findErr := jobRepo.FindByID(context.Background(), job.ID)
	require.NoError(t, findErr)
	assert.Equal(t, models.BulkStatusPreviewReady, stored.Status)
	assert.Empty(t, dispatcher.generateCalls)
}

func TestConfirmDoubleConfirmRejected(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service, jobRepo, db := newConfirmService(t, dispatcher)
	seedQuota(t, db, 100, 0)
	job := createPreviewJob(t, jobRepo, 1, 10)

	_, err := service.Confirm(context.Background(), 1, job.ID, nil, "")
	require.NoError(t, err)

	_, err = service.Confirm(context.Background(), 1, job.ID, nil, "")
	assert.ErrorIs(t, err, ErrJobNotReady)
	assert.Len(t, dispatcher.generateCalls, 1)
}

func TestConfirmNoValidRows(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service, jobRepo, db := newConfirmService(t, dispatcher)
	seedQuota(t, db, 100, 0)
	job := createPreviewJob(t, jobRepo, 1, 0)

	_, err := service.Confirm(context.Background(), 1, job.ID, nil, "")
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestConfirmWrongUser(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service, jobRepo, db := newConfirmService(t, dispatcher)
	seedQuota(t, db, 100, 0)
	job := createPreviewJob(t, jobRepo, 1, 10)

	_, err := service.Confirm(context.Background(), 2, job.ID, nil, "")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestConfirmDispatchFailureMarksJobFailed(t *testing.T) {
	dispatcher := &fakeDispatcher{failWith: errors.New("kuyruk kapalı")}
	service, jobRepo, db := newConfirmService(t, dispatcher)
	seedQuota(t, db, 100, 0)
	job := createPreviewJob(t, jobRepo, 1, 10)

	_, err := service.Confirm(context.Background(), 1, job.ID, nil, "")
	assert.ErrorIs(t, err, ErrDispatchFailed)

	stored, findErr := jobRepo.FindByID(context.Background(), job.ID)
	require.NoError(t, findErr)
	assert.Equal(t, models.BulkStatusFailed, stored.Status)
}

func TestConfirmCreatesQuotaWhenMissing(t *testing.T) {
	// Kota kaydı hiç yoksa varsayılan tahsisle oluşturulur ve onay geçer.
	dispatcher := &fakeDispatcher{}
	service, jobRepo, _ := newConfirmService(t, dispatcher)
	job := createPreviewJob(t, jobRepo, 1, 10)

	confirmed, err := service.Confirm(context.Background(), 1, job.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, models.BulkStatusConfirmed, confirmed.Status)
}
