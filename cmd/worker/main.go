package main

import (
	"davetli.app/configs"
	"davetli.app/configs/configsdatabase"
	"davetli.app/configs/configslog"
	"davetli.app/configs/configsredis"
	"davetli.app/repositories"
	"davetli.app/services"
	"davetli.app/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Toplu yükleme görevlerini işleyen worker süreci. HTTP sunucusundan bağımsız
// olarak ölçeklenir; aynı kuyruk birden fazla worker tarafından tüketilebilir.
func main() {
	configs.LoadEnv()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()
	configsredis.InitRedis()
	defer configsredis.CloseRedis()

	db := configsdatabase.GetDB()
	redisClient := configsredis.GetClient()

	jobRepo := repositories.NewBulkJobRepository(db)
	invitationRepo := repositories.NewInvitationRepository(db)
	statsRepo := repositories.NewInvitationStatsRepository()
	duplicateRepo := repositories.NewDuplicateRecordRepository(db)
	stagingRepo := repositories.NewStagingRepository(redisClient)
	ticketRepo := repositories.NewTicketTypeRepository(db)

	ticketService := services.NewTicketTypeService(ticketRepo, redisClient)
	bloomManager := services.NewBloomManager()
	dedupService := services.NewDeduplicationService(redisClient, bloomManager, configs.DedupNamespace(), configs.DedupLockTTL())
	notifier := services.NewLogNotifier()

	validationService := services.NewBulkValidationService(jobRepo, invitationRepo, stagingRepo, ticketService)
	generateService := services.NewBulkGenerateService(db, jobRepo, invitationRepo, statsRepo, duplicateRepo, stagingRepo, ticketService, dedupService, notifier)

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     configs.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: configs.GetEnv("REDIS_PASSWORD", ""),
		DB:       configs.GetEnvAsInt("ASYNQ_REDIS_DB", 1),
	}, asynq.Config{
		Concurrency: configs.GetEnvAsInt("WORKER_CONCURRENCY", 4),
	})

	mux := tasks.NewServeMux(validationService, generateService)

	configslog.Log.Info("Worker başlatılıyor",
		zap.Int("concurrency", configs.GetEnvAsInt("WORKER_CONCURRENCY", 4)))
	if err := server.Run(mux); err != nil {
		configslog.Log.Fatal("Worker başlatılamadı", zap.Error(err))
	}
}
