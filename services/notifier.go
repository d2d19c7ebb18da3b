package services

import (
	"context"

	"davetli.app/configs/configslog"
	"davetli.app/models"
)

// INotifier üretilen davetiyelerin dışa bildirimi için dar arayüz.
// Gönderim biçimlendirmesi bu servisin dışındadır; hat yalnızca üretim
// sonucunu bildirir.
type INotifier interface {
	BulkGenerated(ctx context.Context, job *models.BulkUploadJob, created, pending int)
}

// LogNotifier bildirimi log'a yazan varsayılan uygulama.
type LogNotifier struct{}

// NewLogNotifier yeni bir LogNotifier örneği oluşturur.
func NewLogNotifier() INotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) BulkGenerated(ctx context.Context, job *models.BulkUploadJob, created, pending int) {
	configslog.SLog.Infof("Toplu üretim bildirimi: iş %s, %d aktif, %d beklemede", job.ID, created, pending)
}

var _ INotifier = (*LogNotifier)(nil)
