package tasks

import (
	"context"
	"encoding/json"

	"davetli.app/services"

	"github.com/hibiken/asynq"
)

// NewServeMux görev türlerini ilgili servislere bağlayan worker mux'ı kurar.
func NewServeMux(validation services.IBulkValidationService, generate services.IBulkGenerateService) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBulkValidate, handleBulkValidate(validation))
	mux.HandleFunc(TypeBulkGenerate, handleBulkGenerate(generate))
	return mux
}

func handleBulkValidate(validation services.IBulkValidationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload BulkValidatePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Bozuk yükün yeniden denenmesi anlamsızdır.
			return asynq.SkipRetry
		}
		return validation.ProcessJob(ctx, payload.JobID, payload.DefaultMessage)
	}
}

func handleBulkGenerate(generate services.IBulkGenerateService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload BulkGeneratePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		return generate.Generate(ctx, payload.JobID, payload.ExpireDate, payload.DefaultMessage)
	}
}
