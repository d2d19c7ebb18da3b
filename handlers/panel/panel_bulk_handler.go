package handlers // handlers/panel paketi

import (
	"errors"
	"strconv"
	"time"

	"davetli.app/configs/configslog"
	"davetli.app/pkg/queryparams"
	"davetli.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PanelBulkHandler kullanıcının toplu davetiye yükleme işleri için JSON API
// handler'ı. Oturum bilgisi (userID) üst middleware tarafından doğrulanır.
type PanelBulkHandler struct {
	uploadService  services.IBulkUploadService
	rowService     services.IBulkRowService
	confirmService services.IBulkConfirmService
}

// NewPanelBulkHandler yeni bir PanelBulkHandler örneği oluşturur.
func NewPanelBulkHandler(
	uploadService services.IBulkUploadService,
	rowService services.IBulkRowService,
	confirmService services.IBulkConfirmService,
) *PanelBulkHandler {
	return &PanelBulkHandler{
		uploadService:  uploadService,
		rowService:     rowService,
		confirmService: confirmService,
	}
}

func jsonSuccess(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func jsonError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// serviceErrorStatus bilinen servis hatalarını HTTP koduna çevirir.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrJobNotFound), errors.Is(err, services.ErrRowNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrJobNotReady), errors.Is(err, services.ErrJobBusy):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrDuplicateRow):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrQuotaExceeded):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNoValidRows),
		errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrEmptyFile),
		errors.Is(err, services.ErrInvalidHeader):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *PanelBulkHandler) respondServiceError(c *fiber.Ctx, err error, logMessage string) error {
	statusCode := serviceErrorStatus(err)
	if statusCode == fiber.StatusInternalServerError {
		configslog.Log.Error(logMessage, zap.Error(err))
		return jsonError(c, statusCode, "Beklenmeyen bir hata oluştu.")
	}

	var quotaErr *services.QuotaExceededError
	if errors.As(err, &quotaErr) {
		return c.Status(statusCode).JSON(fiber.Map{
			"status":  "error",
			"message": quotaErr.Error(),
			"data": fiber.Map{
				"remaining": quotaErr.Remaining,
				"requested": quotaErr.Requested,
				"shortfall": quotaErr.Shortfall(),
			},
		})
	}
	return jsonError(c, statusCode, err.Error())
}

// UploadFile CSV dosyasını alır, işi oluşturur ve doğrulamayı kuyruğa atar.
// POST /panel/bulk/upload
func (h *PanelBulkHandler) UploadFile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Dosya alanı eksik veya okunamadı.")
	}
	file, err := fileHeader.Open()
	if err != nil {
		configslog.Log.Error("Yüklenen dosya açılamadı", zap.Error(err))
		return jsonError(c, fiber.StatusBadRequest, "Dosya okunamadı.")
	}
	defer file.Close()

	job, err := h.uploadService.Upload(c.UserContext(), userID, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return h.respondServiceError(c, err, "Panel - UploadFile Error")
	}

	return jsonSuccess(c, fiber.StatusCreated, "Dosya yüklendi, doğrulama başlatıldı.", fiber.Map{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// GetJobStatus işin güncel durumunu ve staging sayaçlarını döner.
// GET /panel/bulk/:jobID/status
func (h *PanelBulkHandler) GetJobStatus(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	jobID := c.Params("jobID")

	result, err := h.rowService.JobStatus(c.UserContext(), userID, jobID)
	if err != nil {
		return h.respondServiceError(c, err, "Panel - GetJobStatus Error")
	}
	return jsonSuccess(c, fiber.StatusOK, "", result)
}

// ListRows staging satırlarını filtreleyip sayfalayarak döner.
// GET /panel/bulk/:jobID/rows
func (h *PanelBulkHandler) ListRows(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	jobID := c.Params("jobID")

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("id")
	}
	params.Validate()

	filter := services.RowFilter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		TicketType: c.Query("ticket_type"),
	}

	result, err := h.rowService.FetchRows(c.UserContext(), userID, jobID, filter, params)
	if err != nil {
		return h.respondServiceError(c, err, "Panel - ListRows Error")
	}
	return jsonSuccess(c, fiber.StatusOK, "", result)
}

type rowRequest struct {
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	TicketType      string `json:"ticket_type"`
	Company         string `json:"company"`
	PersonalMessage string `json:"personal_message"`
}

// AddRow staging alanına elle yeni satır ekler.
// POST /panel/bulk/:jobID/rows
func (h *PanelBulkHandler) AddRow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	jobID := c.Params("jobID")

	var req rowRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Geçersiz istek gövdesi.")
	}

	row, err := h.rowService.AddRow(c.UserContext(), userID, jobID, services.RawGuestRow{
		FullName:        req.GuestName,
		Email:           req.GuestEmail,
		TicketType:      req.TicketType,
		Company:         req.Company,
		PersonalMessage: req.PersonalMessage,
	})
	if err != nil {
		return h.respondServiceError(c, err, "Panel - AddRow Error")
	}
	return jsonSuccess(c, fiber.StatusCreated, "Satır eklendi.", row)
}

// PatchRow mevcut bir staging satırını kısmen günceller ve yeniden doğrular.
// PATCH /panel/bulk/:jobID/rows/:rowID
func (h *PanelBulkHandler) PatchRow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	jobID := c.Params("jobID")

	rowID, err := strconv.Atoi(c.Params("rowID"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Geçersiz satır numarası.")
	}

	var fields map[string]string
	if err := c.BodyParser(&fields); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Geçersiz istek gövdesi.")
	}

	row, err := h.rowService.PatchRow(c.UserContext(), userID, jobID, rowID, fields)
	if err != nil {
		return h.respondServiceError(c, err, "Panel - PatchRow Error")
	}
	return jsonSuccess(c, fiber.StatusOK, "Satır güncellendi.", row)
}

// DeleteRow bir staging satırını siler.
// DELETE /panel/bulk/:jobID/rows/:rowID
func (h *PanelBulkHandler) DeleteRow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	jobID := c.Params("jobID")

	rowID, err := strconv.Atoi(c.Params("rowID"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Geçersiz satır numarası.")
	}

	if err := h.rowService.DeleteRow(c.UserContext(), userID, jobID, rowID); err != nil {
		return h.respondServiceError(c, err, "Panel - DeleteRow Error")
	}
	return jsonSuccess(c, fiber.StatusOK, "Satır silindi.", nil)
}

// ClearData işin staging verisini tamamen boşaltır.
// POST /panel/bulk/:jobID/clear
func (h *PanelBulkHandler) ClearData(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	jobID := c.Params("jobID")

	if err := h.rowService.ClearRows(c.UserContext(), userID, jobID); err != nil {
		return h.respondServiceError(c, err, "Panel - ClearData Error")
	}
	return jsonSuccess(c, fiber.StatusOK, "İş verisi temizlendi.", nil)
}

type confirmRequest struct {
	ExpireDate             string `json:"expire_date"`
	DefaultPersonalMessage string `json:"default_personal_message"`
}

// ConfirmJob önizlemesi hazır işi davetiye üretimine gönderir.
// POST /panel/bulk/:jobID/confirm
func (h *PanelBulkHandler) ConfirmJob(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	jobID := c.Params("jobID")

	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Geçersiz istek gövdesi.")
	}

	var expireDate *time.Time
	if req.ExpireDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpireDate)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "Geçersiz tarih biçimi (YYYY-AA-GG bekleniyor).")
		}
		expireDate = &parsed
	}

	job, err := h.confirmService.Confirm(c.UserContext(), userID, jobID, expireDate, req.DefaultPersonalMessage)
	if err != nil {
		return h.respondServiceError(c, err, "Panel - ConfirmJob Error")
	}
	return jsonSuccess(c, fiber.StatusOK, "İş onaylandı, davetiye üretimi başlatıldı.", fiber.Map{
		"job_id":      job.ID,
		"status":      job.Status,
		"valid_count": job.ValidCount,
	})
}
