package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"davetli.app/configs"
	"davetli.app/configs/configslog"
	"davetli.app/models"
	"davetli.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IBulkUploadService CSV yükleme akışı için arayüz.
type IBulkUploadService interface {
	// Upload dosyayı kalıcı dizine yazar, pending durumda bir iş oluşturur
	// ve doğrulama görevini kuyruğa ekler. İstek yolu dosya işlenmesini beklemez.
	Upload(ctx context.Context, userID uint, fileName string, src io.Reader, size int64) (*models.BulkUploadJob, error)
}

// BulkUploadService IBulkUploadService arayüzünü uygular.
type BulkUploadService struct {
	jobs       repositories.IBulkJobRepository
	dispatcher IBulkDispatcher
	uploadDir  string
	maxSize    int64
}

// NewBulkUploadService yeni bir BulkUploadService örneği oluşturur.
func NewBulkUploadService(jobs repositories.IBulkJobRepository, dispatcher IBulkDispatcher) IBulkUploadService {
	return &BulkUploadService{
		jobs:       jobs,
		dispatcher: dispatcher,
		uploadDir:  configs.BulkUploadDir(),
		maxSize:    configs.BulkUploadMaxSize(),
	}
}

func (s *BulkUploadService) Upload(ctx context.Context, userID uint, fileName string, src io.Reader, size int64) (*models.BulkUploadJob, error) {
	if size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bayt (sınır %d)", ErrFileTooLarge, size, s.maxSize)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}
	storedPath := filepath.Join(s.uploadDir, uuid.NewString()+".csv")
	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(storedPath)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}

	job := &models.BulkUploadJob{
		UserID:   userID,
		FilePath: storedPath,
		FileName: fileName,
		Status:   models.BulkStatusPending,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		_ = os.Remove(storedPath)
		return nil, err
	}

	if err := s.dispatcher.EnqueueValidate(job.ID, ""); err != nil {
		configslog.Log.Error("Doğrulama görevi kuyruğa eklenemedi",
			zap.String("job_id", job.ID), zap.Error(err))
		_ = s.jobs.SetFailed(ctx, job.ID, "doğrulama görevi kuyruğa eklenemedi")
		return nil, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	configslog.SLog.Infof("Toplu yükleme alındı: iş %s, dosya %s (%d bayt)", job.ID, fileName, size)
	return job, nil
}

var _ IBulkUploadService = (*BulkUploadService)(nil)
