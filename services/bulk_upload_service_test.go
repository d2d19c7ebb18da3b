package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"davetli.app/models"
	"davetli.app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUploadService(t *testing.T, dispatcher IBulkDispatcher) (IBulkUploadService, repositories.IBulkJobRepository, *gorm.DB) {
	t.Helper()
	t.Setenv("BULK_UPLOAD_DIR", t.TempDir())
	db := newTestDB(t)
	jobRepo := repositories.NewBulkJobRepository(db)
	return NewBulkUploadService(jobRepo, dispatcher), jobRepo, db
}

func TestUploadHappyPath(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service, jobRepo, _ := newUploadService(t, dispatcher)
	ctx := context.Background()

	content := "Full Name,Email,Ticket Type\nAli Kaya,ali@example.com,Standard\n"
	job, err := service.Upload(ctx, 1, "misafirler.csv", strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.BulkStatusPending, job.Status)
	assert.Equal(t, "misafirler.csv", job.FileName)
	assert.Equal(t, []string{job.ID}, dispatcher.validateCalls)

	// Dosya kalıcı dizine birebir yazılmış olmalı.
	saved, err := os.ReadFile(job.FilePath)
	require.NoError(t, err)
	assert.Equal(t, content, string(saved))

	stored, err := jobRepo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), stored.UserID)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	service, _, _ := newUploadService(t, dispatcher)

	_, err := service.Upload(context.Background(), 1, "dev.csv", strings.NewReader("x"), 100*1024*1024)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, dispatcher.validateCalls)
}

func TestUploadDispatchFailureMarksJobFailed(t *testing.T) {
	dispatcher := &fakeDispatcher{failWith: errors.New("kuyruk kapalı")}
	service, _, db := newUploadService(t, dispatcher)

	_, err := service.Upload(context.Background(), 1, "dev.csv", strings.NewReader("veri"), 4)
	assert.ErrorIs(t, err, ErrDispatchFailed)

	// İş kaydı failed olarak kalır; kullanıcı durumu görebilir.
	var job models.BulkUploadJob
	require.NoError(t, db.First(&job).Error)
	assert.Equal(t, models.BulkStatusFailed, job.Status)
}
