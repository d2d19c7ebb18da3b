package services

import (
	"context"
	"errors"
	"strings"

	"davetli.app/configs/configslog"
	"davetli.app/models"
	"davetli.app/pkg/queryparams"
	"davetli.app/repositories"

	"go.uber.org/zap"
)

// RowFilter staging satır listeleme filtreleri.
type RowFilter struct {
	Search     string
	Status     string
	TicketType string
}

// RowListResult filtrelenmiş satırlar, sayfalama üst verisi ve filtrelenmiş
// kümenin sayaçları.
type RowListResult struct {
	Rows       []models.StagedRow         `json:"rows"`
	Meta       queryparams.PaginationMeta `json:"meta"`
	Stats      models.StagedStats         `json:"stats"`
	JobStatus  string                     `json:"job_status"`
	TotalStats models.StagedStats         `json:"total_stats"`
}

// JobStatusResult iş durumu sorgusunun yanıtı.
type JobStatusResult struct {
	Job     *models.BulkUploadJob `json:"job"`
	Staging models.StagedStats    `json:"staging_stats"`
}

// IBulkRowService onay öncesi staging satırlarının düzenlenmesini yönetir.
// Tüm işlemler iş sahipliğini doğrular; satır değişiklikleri sayaçları ve
// iş kaydını senkron tutar.
type IBulkRowService interface {
	FetchRows(ctx context.Context, userID uint, jobID string, filter RowFilter, params queryparams.ListParams) (*RowListResult, error)
	AddRow(ctx context.Context, userID uint, jobID string, raw RawGuestRow) (*models.StagedRow, error)
	PatchRow(ctx context.Context, userID uint, jobID string, rowID int, fields map[string]string) (*models.StagedRow, error)
	DeleteRow(ctx context.Context, userID uint, jobID string, rowID int) error
	ClearRows(ctx context.Context, userID uint, jobID string) error
	JobStatus(ctx context.Context, userID uint, jobID string) (*JobStatusResult, error)
}

// BulkRowService IBulkRowService arayüzünü uygular.
type BulkRowService struct {
	jobs        repositories.IBulkJobRepository
	invitations repositories.IInvitationRepository
	staging     repositories.IStagingRepository
	tickets     ITicketTypeService
}

// NewBulkRowService yeni bir BulkRowService örneği oluşturur.
func NewBulkRowService(
	jobs repositories.IBulkJobRepository,
	invitations repositories.IInvitationRepository,
	staging repositories.IStagingRepository,
	tickets ITicketTypeService,
) *BulkRowService {
	return &BulkRowService{jobs: jobs, invitations: invitations, staging: staging, tickets: tickets}
}

func (s *BulkRowService) findOwnedJob(ctx context.Context, userID uint, jobID string) (*models.BulkUploadJob, error) {
	job, err := s.jobs.FindByIDForUser(ctx, jobID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *BulkRowService) buildContext(ctx context.Context, userID uint) (*ValidationContext, error) {
	globalUnique, ticketCache, err := s.tickets.LoadValidationContext(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := s.invitations.ListGuestKeysByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewValidationContext(globalUnique, ticketCache, existing), nil
}

func (s *BulkRowService) FetchRows(ctx context.Context, userID uint, jobID string, filter RowFilter, params queryparams.ListParams) (*RowListResult, error) {
	job, err := s.findOwnedJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	rows, err := s.staging.RangeRows(jobID)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	ticketName := strings.ToLower(strings.TrimSpace(filter.TicketType))
	filtered := make([]models.StagedRow, 0, len(rows))
	var filteredStats models.StagedStats
	for _, row := range rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if ticketName != "" && strings.ToLower(strings.TrimSpace(row.TicketType)) != ticketName {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(row.GuestName), search) &&
			!strings.Contains(strings.ToLower(row.GuestEmail), search) {
			continue
		}
		filtered = append(filtered, row)
		filteredStats.TotalCount++
		if row.Status == models.RowStatusValid {
			filteredStats.ValidCount++
		} else {
			filteredStats.InvalidCount++
		}
	}

	params.Validate()
	total := int64(len(filtered))
	offset := params.Offset()
	if offset > len(filtered) {
		offset = len(filtered)
	}
	end := offset + params.PerPage
	if end > len(filtered) {
		end = len(filtered)
	}

	totalStats, err := s.staging.GetStats(jobID)
	if err != nil {
		return nil, err
	}
	status, err := s.staging.GetStatus(jobID)
	if err != nil {
		status = job.Status
	}

	return &RowListResult{
		Rows: filtered[offset:end],
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
		Stats:      filteredStats,
		JobStatus:  status,
		TotalStats: totalStats,
	}, nil
}

func (s *BulkRowService) AddRow(ctx context.Context, userID uint, jobID string, raw RawGuestRow) (*models.StagedRow, error) {
	job, err := s.findOwnedJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == models.BulkStatusProcessing || job.Status == models.BulkStatusSending {
		return nil, ErrJobBusy
	}
	if strings.TrimSpace(raw.FullName) == "" ||
		strings.TrimSpace(raw.Email) == "" ||
		strings.TrimSpace(raw.TicketType) == "" {
		return nil, ErrMissingFields
	}

	vctx, err := s.buildContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.staging.RangeRows(jobID)
	if err != nil {
		return nil, err
	}
	tracker := NewDuplicateTracker()
	tracker.Seed(rows, -1)

	nextID, nextRowNumber := 0, 0
	for _, row := range rows {
		if row.ID > nextID {
			nextID = row.ID
		}
		if row.RowNumber > nextRowNumber {
			nextRowNumber = row.RowNumber
		}
	}
	nextID++
	nextRowNumber++

	staged := ValidateGuestRow(raw, nextRowNumber, vctx, tracker, "")
	staged.ID = nextID
	if staged.Duplicate || staged.FileLevelDuplicate {
		return nil, ErrDuplicateRow
	}

	if err := s.staging.PushRow(jobID, staged); err != nil {
		return nil, err
	}

	stats, err := s.staging.GetStats(jobID)
	if err != nil {
		return nil, err
	}
	stats.TotalCount++
	if staged.Status == models.RowStatusValid {
		stats.ValidCount++
	} else {
		stats.InvalidCount++
	}
	if err := s.staging.SetStats(jobID, stats); err != nil {
		return nil, err
	}
	if err := s.syncJobCounts(ctx, jobID, stats); err != nil {
		return nil, err
	}

	configslog.SLog.Infof("İşe satır eklendi: %s, satır %d (%s)", jobID, staged.ID, staged.Status)
	return &staged, nil
}

// patchableFields satır düzenlemede kabul edilen alan adları.
var patchableFields = map[string]struct{}{
	"guest_name":       {},
	"guest_email":      {},
	"ticket_type":      {},
	"company":          {},
	"personal_message": {},
}

func (s *BulkRowService) PatchRow(ctx context.Context, userID uint, jobID string, rowID int, fields map[string]string) (*models.StagedRow, error) {
	job, err := s.findOwnedJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == models.BulkStatusProcessing || job.Status == models.BulkStatusSending {
		return nil, ErrJobBusy
	}

	current, err := s.staging.GetRow(jobID, rowID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRowNotFound
		}
		return nil, err
	}

	raw := RawGuestRow{
		FullName:        current.GuestName,
		Email:           current.GuestEmail,
		TicketType:      current.TicketType,
		Company:         current.Company,
		PersonalMessage: current.PersonalMessage,
	}
	for field, value := range fields {
		if _, ok := patchableFields[field]; !ok {
			continue
		}
		switch field {
		case "guest_name":
			raw.FullName = value
		case "guest_email":
			raw.Email = value
		case "ticket_type":
			raw.TicketType = value
		case "company":
			raw.Company = value
		case "personal_message":
			raw.PersonalMessage = value
		}
	}

	vctx, err := s.buildContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.staging.RangeRows(jobID)
	if err != nil {
		return nil, err
	}
	tracker := NewDuplicateTracker()
	// Satırın eski hali takipçiye yüklenmez; yeni e-posta/bilet çifti kalan
	// satırlara karşı değerlendirilir.
	tracker.Seed(rows, rowID)

	updated := ValidateGuestRow(raw, current.RowNumber, vctx, tracker, "")
	updated.ID = current.ID

	if err := s.staging.PushRow(jobID, updated); err != nil {
		return nil, err
	}

	if current.Status != updated.Status {
		if updated.Status == models.RowStatusValid {
			_ = s.staging.IncrStat(jobID, "valid_count", 1)
			_ = s.staging.IncrStat(jobID, "invalid_count", -1)
		} else {
			_ = s.staging.IncrStat(jobID, "valid_count", -1)
			_ = s.staging.IncrStat(jobID, "invalid_count", 1)
		}
	}

	stats, err := s.staging.GetStats(jobID)
	if err != nil {
		return nil, err
	}
	if err := s.syncJobCounts(ctx, jobID, stats); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *BulkRowService) DeleteRow(ctx context.Context, userID uint, jobID string, rowID int) error {
	job, err := s.findOwnedJob(ctx, userID, jobID)
	if err != nil {
		return err
	}
	if job.Status == models.BulkStatusProcessing || job.Status == models.BulkStatusSending {
		return ErrJobBusy
	}

	row, err := s.staging.GetRow(jobID, rowID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRowNotFound
		}
		return err
	}
	if err := s.staging.DeleteRow(jobID, rowID); err != nil {
		return err
	}

	stats, err := s.staging.GetStats(jobID)
	if err != nil {
		return err
	}
	stats.TotalCount--
	if row.Status == models.RowStatusValid {
		stats.ValidCount--
	} else {
		stats.InvalidCount--
	}
	// Sayaçlar sıfırın altına inmez.
	if stats.TotalCount < 0 {
		stats.TotalCount = 0
	}
	if stats.ValidCount < 0 {
		stats.ValidCount = 0
	}
	if stats.InvalidCount < 0 {
		stats.InvalidCount = 0
	}
	if err := s.staging.SetStats(jobID, stats); err != nil {
		return err
	}
	return s.syncJobCounts(ctx, jobID, stats)
}

func (s *BulkRowService) ClearRows(ctx context.Context, userID uint, jobID string) error {
	job, err := s.findOwnedJob(ctx, userID, jobID)
	if err != nil {
		return err
	}
	// Arka plan işi staging alanında çalışırken temizlik yarış yaratır.
	if job.Status == models.BulkStatusProcessing || job.Status == models.BulkStatusSending {
		return ErrJobBusy
	}

	if err := s.staging.DeleteRows(jobID); err != nil {
		return err
	}
	if err := s.staging.SetStats(jobID, models.StagedStats{}); err != nil {
		return err
	}
	if err := s.staging.SetStatus(jobID, models.BulkStatusPending); err != nil {
		return err
	}
	if err := s.jobs.UpdateFields(ctx, jobID, map[string]interface{}{
		"status":        models.BulkStatusCleared,
		"total_count":   0,
		"valid_count":   0,
		"invalid_count": 0,
	}); err != nil {
		return err
	}

	configslog.Log.Info("İş verisi temizlendi", zap.String("job_id", jobID), zap.Uint("user_id", userID))
	return nil
}

func (s *BulkRowService) JobStatus(ctx context.Context, userID uint, jobID string) (*JobStatusResult, error) {
	job, err := s.findOwnedJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	stats, err := s.staging.GetStats(jobID)
	if err != nil {
		return nil, err
	}
	return &JobStatusResult{Job: job, Staging: stats}, nil
}

func (s *BulkRowService) syncJobCounts(ctx context.Context, jobID string, stats models.StagedStats) error {
	return s.jobs.UpdateFields(ctx, jobID, map[string]interface{}{
		"total_count":   stats.TotalCount,
		"valid_count":   stats.ValidCount,
		"invalid_count": stats.InvalidCount,
	})
}

var _ IBulkRowService = (*BulkRowService)(nil)
