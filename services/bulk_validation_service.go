package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"davetli.app/configs"
	"davetli.app/configs/configslog"
	"davetli.app/models"
	"davetli.app/repositories"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// IBulkValidationService yüklenen CSV'yi doğrulayıp staging store'a yazan
// ingestion motoru arayüzü.
type IBulkValidationService interface {
	// ProcessJob işi pending → processing → preview_ready durumlarından
	// geçirir; yakalanmayan her hata işi failed yapar. Tamamlanmış veya
	// üretimdeki bir iş için çağrı sessizce no-op'tur (en-az-bir-kez teslimat).
	ProcessJob(ctx context.Context, jobID, defaultMessage string) error
}

// BulkValidationService IBulkValidationService arayüzünü uygular.
type BulkValidationService struct {
	jobs        repositories.IBulkJobRepository
	invitations repositories.IInvitationRepository
	staging     repositories.IStagingRepository
	tickets     ITicketTypeService

	batchSize    int
	maxWorkers   int
	previewLimit int
}

// NewBulkValidationService yeni bir BulkValidationService örneği oluşturur.
func NewBulkValidationService(
	jobs repositories.IBulkJobRepository,
	invitations repositories.IInvitationRepository,
	staging repositories.IStagingRepository,
	tickets ITicketTypeService,
) *BulkValidationService {
	return &BulkValidationService{
		jobs:         jobs,
		invitations:  invitations,
		staging:      staging,
		tickets:      tickets,
		batchSize:    configs.BulkBatchSize(),
		maxWorkers:   configs.BulkMaxWorkers(),
		previewLimit: configs.BulkPreviewLimit(),
	}
}

func (s *BulkValidationService) ProcessJob(ctx context.Context, jobID, defaultMessage string) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrJobNotFound
		}
		return err
	}

	switch job.Status {
	case models.BulkStatusConfirmed, models.BulkStatusSending, models.BulkStatusCompleted:
		configslog.SLog.Warnf("Doğrulama atlandı: iş %s zaten %s durumunda", jobID, job.Status)
		return nil
	}

	if err := s.run(ctx, job, defaultMessage); err != nil {
		configslog.Log.Error("Toplu doğrulama başarısız", zap.String("job_id", jobID), zap.Error(err))
		_ = s.jobs.SetFailed(ctx, jobID, err.Error())
		_ = s.staging.SetStatus(jobID, models.BulkStatusFailed)
		return err
	}
	return nil
}

func (s *BulkValidationService) run(ctx context.Context, job *models.BulkUploadJob, defaultMessage string) error {
	jobID := job.ID

	// Processing'e giriş: staging alanı ve sayaçlar sıfırlanır.
	if err := s.jobs.UpdateFields(ctx, jobID, map[string]interface{}{
		"status":     models.BulkStatusProcessing,
		"error_note": "",
	}); err != nil {
		return err
	}
	if err := s.staging.SetStatus(jobID, models.BulkStatusProcessing); err != nil {
		return err
	}
	if err := s.staging.DeleteRows(jobID); err != nil {
		return err
	}
	if err := s.staging.SetStats(jobID, models.StagedStats{}); err != nil {
		return err
	}

	rawRows, err := readGuestCSV(job.FilePath)
	if err != nil {
		return err
	}

	// Yeniden kullanılan veriler bir kez yüklenir; satır başına DB sorgusu yoktur.
	globalUnique, ticketCache, err := s.tickets.LoadValidationContext(ctx)
	if err != nil {
		return err
	}
	existing, err := s.invitations.ListGuestKeysByUser(ctx, job.UserID)
	if err != nil {
		return err
	}
	vctx := NewValidationContext(globalUnique, ticketCache, existing)
	tracker := NewDuplicateTracker()

	total := len(rawRows)
	validTotal, invalidTotal := 0, 0
	preview := make([]models.StagedRow, 0, s.previewLimit)

	for start := 0; start < total; start += s.batchSize {
		end := start + s.batchSize
		if end > total {
			end = total
		}
		results := s.validateChunk(rawRows[start:end], start+1, vctx, tracker, defaultMessage)

		chunkValid, chunkInvalid := 0, 0
		for i := range results {
			if results[i].Status == models.RowStatusValid {
				chunkValid++
			} else {
				chunkInvalid++
				if len(preview) < s.previewLimit {
					preview = append(preview, results[i])
				}
			}
		}

		// Satırlar ve sayaç artışları chunk başına tek pipeline ile yazılır.
		if err := s.staging.PushChunk(jobID, results, chunkValid, chunkInvalid); err != nil {
			return err
		}
		validTotal += chunkValid
		invalidTotal += chunkInvalid
	}

	previewJSON, err := json.Marshal(preview)
	if err != nil {
		return err
	}
	if err := s.jobs.UpdateFields(ctx, jobID, map[string]interface{}{
		"total_count":   total,
		"valid_count":   validTotal,
		"invalid_count": invalidTotal,
		"preview_data":  datatypes.JSON(previewJSON),
		"status":        models.BulkStatusPreviewReady,
	}); err != nil {
		return err
	}
	if err := s.staging.SetStatus(jobID, models.BulkStatusPreviewReady); err != nil {
		return err
	}

	configslog.SLog.Infof("Toplu doğrulama tamamlandı: iş %s, toplam %d, geçerli %d, geçersiz %d",
		jobID, total, validTotal, invalidTotal)
	return nil
}

// validateChunk chunk'ı worker havuzuna bitişik parçalar halinde dağıtır.
// Sonuç dilimi dosya sırasını korur; worker'lar ayrık aralıklara yazar.
// Dosya içi mükerrer haritasına sahiplenme sırası parçalar arasında
// tamamlanma sırasına bağlıdır (bkz. DuplicateTracker).
func (s *BulkValidationService) validateChunk(chunk []RawGuestRow, startRowNumber int, vctx *ValidationContext, tracker *DuplicateTracker, defaultMessage string) []models.StagedRow {
	results := make([]models.StagedRow, len(chunk))

	partSize := (len(chunk) + s.maxWorkers - 1) / s.maxWorkers
	if partSize < 1 {
		partSize = 1
	}

	var wg sync.WaitGroup
	for offset := 0; offset < len(chunk); offset += partSize {
		partEnd := offset + partSize
		if partEnd > len(chunk) {
			partEnd = len(chunk)
		}
		wg.Add(1)
		go func(offset, partEnd int) {
			defer wg.Done()
			for i := offset; i < partEnd; i++ {
				rowNumber := startRowNumber + i
				results[i] = ValidateGuestRow(chunk[i], rowNumber, vctx, tracker, defaultMessage)
			}
		}(offset, partEnd)
	}
	wg.Wait()
	return results
}

// CSV başlık sözleşmesi: sütunlar hem görünen adla ("Full Name") hem de
// alan adıyla ("full_name") eşleşir.
var csvHeaderAliases = map[string]string{
	"full name":        "full_name",
	"full_name":        "full_name",
	"email":            "email",
	"ticket type":      "ticket_type",
	"ticket_type":      "ticket_type",
	"company":          "company",
	"personal message": "personal_message",
	"personal_message": "personal_message",
}

// readGuestCSV dosyayı başlık sözleşmesine göre sıralı ham satırlara çözer.
func readGuestCSV(path string) ([]RawGuestRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseGuestCSV(file)
}

func parseGuestCSV(r io.Reader) ([]RawGuestRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}

	fieldIndex := map[string]int{}
	for i, column := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(column, "﻿")))
		if field, ok := csvHeaderAliases[normalized]; ok {
			if _, exists := fieldIndex[field]; !exists {
				fieldIndex[field] = i
			}
		}
	}
	for _, required := range []string{"full_name", "email", "ticket_type"} {
		if _, ok := fieldIndex[required]; !ok {
			return nil, ErrInvalidHeader
		}
	}

	pick := func(record []string, field string) string {
		index, ok := fieldIndex[field]
		if !ok || index >= len(record) {
			return ""
		}
		return record[index]
	}

	var rows []RawGuestRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, RawGuestRow{
			FullName:        pick(record, "full_name"),
			Email:           pick(record, "email"),
			TicketType:      pick(record, "ticket_type"),
			Company:         pick(record, "company"),
			PersonalMessage: pick(record, "personal_message"),
		})
	}
	return rows, nil
}

var _ IBulkValidationService = (*BulkValidationService)(nil)
