package services

import "time"

// IBulkDispatcher arka plan görevlerini ateşle-unut modeliyle kuyruğa ekler.
// Teslimat en-az-bir-kez varsayılır; görev işleyicileri iş durumu kontrolüyle
// idempotent olmak zorundadır.
type IBulkDispatcher interface {
	EnqueueValidate(jobID, defaultMessage string) error
	EnqueueGenerate(jobID string, expireDate *time.Time, defaultMessage string) error
}
