package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Kuyruk görev türleri.
const (
	TypeBulkValidate = "bulk:validate"
	TypeBulkGenerate = "bulk:generate"
)

// BulkValidatePayload doğrulama görevinin yükü.
type BulkValidatePayload struct {
	JobID          string `json:"job_id"`
	DefaultMessage string `json:"default_message"`
}

// BulkGeneratePayload üretim görevinin yükü.
type BulkGeneratePayload struct {
	JobID          string     `json:"job_id"`
	ExpireDate     *time.Time `json:"expire_date,omitempty"`
	DefaultMessage string     `json:"default_message"`
}

// NewBulkValidateTask doğrulama görevi oluşturur.
func NewBulkValidateTask(jobID, defaultMessage string) (*asynq.Task, error) {
	payload, err := json.Marshal(BulkValidatePayload{JobID: jobID, DefaultMessage: defaultMessage})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBulkValidate, payload), nil
}

// NewBulkGenerateTask üretim görevi oluşturur.
func NewBulkGenerateTask(jobID string, expireDate *time.Time, defaultMessage string) (*asynq.Task, error) {
	payload, err := json.Marshal(BulkGeneratePayload{JobID: jobID, ExpireDate: expireDate, DefaultMessage: defaultMessage})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBulkGenerate, payload), nil
}
