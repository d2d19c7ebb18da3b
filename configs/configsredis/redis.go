package configsredis

import (
	"davetli.app/configs"
	"davetli.app/configs/configslog"

	"github.com/go-redis/redis"
	"go.uber.org/zap"
)

var client *redis.Client

// InitRedis staging store ve dedup kilitleri için Redis bağlantısını açar.
func InitRedis() {
	client = redis.NewClient(&redis.Options{
		Addr:     configs.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: configs.GetEnv("REDIS_PASSWORD", ""),
		DB:       configs.GetEnvAsInt("REDIS_DB", 0),
	})

	if err := client.Ping().Err(); err != nil {
		configslog.Log.Fatal("Redis bağlantısı kurulamadı", zap.Error(err))
	}
	configslog.SLog.Info("Redis bağlantısı kuruldu.")
}

// GetClient aktif Redis istemcisini döner.
func GetClient() *redis.Client {
	if client == nil {
		configslog.Log.Fatal("GetClient, InitRedis çağrılmadan kullanıldı")
	}
	return client
}

// SetClient testlerde istemciyi değiştirmek için kullanılır.
func SetClient(c *redis.Client) {
	client = c
}

// CloseRedis bağlantıyı kapatır.
func CloseRedis() {
	if client != nil {
		_ = client.Close()
	}
}
