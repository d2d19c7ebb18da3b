package main

import (
	"os"
	"os/signal"
	"syscall"

	"davetli.app/configs"
	"davetli.app/configs/configsdatabase"
	"davetli.app/configs/configslog"
	"davetli.app/configs/configsredis"
	"davetli.app/repositories"
	"davetli.app/routes"
	"davetli.app/services"
	"davetli.app/tasks"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

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

	dispatcher := tasks.NewAsynqDispatcher(asynq.RedisClientOpt{
		Addr:     configs.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: configs.GetEnv("REDIS_PASSWORD", ""),
		DB:       configs.GetEnvAsInt("ASYNQ_REDIS_DB", 1),
	})
	defer dispatcher.Close()

	jobRepo := repositories.NewBulkJobRepository(db)
	invitationRepo := repositories.NewInvitationRepository(db)
	statsRepo := repositories.NewInvitationStatsRepository()
	stagingRepo := repositories.NewStagingRepository(redisClient)
	ticketRepo := repositories.NewTicketTypeRepository(db)

	ticketService := services.NewTicketTypeService(ticketRepo, redisClient)

	routeServices := routes.AppServices{
		Upload:  services.NewBulkUploadService(jobRepo, dispatcher),
		Row:     services.NewBulkRowService(jobRepo, invitationRepo, stagingRepo, ticketService),
		Confirm: services.NewBulkConfirmService(db, jobRepo, statsRepo, stagingRepo, dispatcher),
	}

	app := fiber.New(fiber.Config{
		AppName:   "Davetli Toplu Yükleme API",
		BodyLimit: int(configs.BulkUploadMaxSize()) + 1024*1024,
	})

	routes.SetupRoutes(app, routeServices)

	// Sinyal ile düzgün kapanış
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		configslog.Log.Info("Kapanış sinyali alındı, sunucu durduruluyor")
		_ = app.Shutdown()
	}()

	listenAddr := configs.GetEnv("LISTEN_ADDR", ":3000")
	configslog.Log.Info("HTTP sunucusu başlatılıyor", zap.String("addr", listenAddr))
	if err := app.Listen(listenAddr); err != nil {
		configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
	}
}
