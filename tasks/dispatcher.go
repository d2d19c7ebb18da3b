package tasks

import (
	"time"

	"davetli.app/configs/configslog"
	"davetli.app/services"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqDispatcher services.IBulkDispatcher arayüzünü asynq kuyruğu üzerinden
// uygular. Görevler varsayılan kuyrukta, sınırlı yeniden deneme ile çalışır.
type AsynqDispatcher struct {
	client *asynq.Client
}

// NewAsynqDispatcher verilen Redis bağlantı ayarlarıyla dispatcher oluşturur.
func NewAsynqDispatcher(opt asynq.RedisClientOpt) *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(opt)}
}

func (d *AsynqDispatcher) EnqueueValidate(jobID, defaultMessage string) error {
	task, err := NewBulkValidateTask(jobID, defaultMessage)
	if err != nil {
		return err
	}
	info, err := d.client.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(30*time.Minute))
	if err != nil {
		return err
	}
	configslog.Log.Info("Doğrulama görevi kuyruğa eklendi",
		zap.String("job_id", jobID), zap.String("task_id", info.ID))
	return nil
}

func (d *AsynqDispatcher) EnqueueGenerate(jobID string, expireDate *time.Time, defaultMessage string) error {
	task, err := NewBulkGenerateTask(jobID, expireDate, defaultMessage)
	if err != nil {
		return err
	}
	info, err := d.client.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(60*time.Minute))
	if err != nil {
		return err
	}
	configslog.Log.Info("Üretim görevi kuyruğa eklendi",
		zap.String("job_id", jobID), zap.String("task_id", info.ID))
	return nil
}

// Close kuyruk istemcisini kapatır.
func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}

var _ services.IBulkDispatcher = (*AsynqDispatcher)(nil)
