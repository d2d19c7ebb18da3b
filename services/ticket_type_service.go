package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"davetli.app/configs"
	"davetli.app/configs/configslog"
	"davetli.app/repositories"

	"github.com/go-redis/redis"
	"go.uber.org/zap"
)

const ticketCacheKey = "ticket_types_cache"

// TicketCacheEntry bir doğrulama çalıştırması boyunca kullanılan bilet türü
// özeti. Harita anahtarı küçük harfe çevrilmiş bilet adıdır.
type TicketCacheEntry struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	EnforceUniqueEmail bool   `json:"enforce_unique_email"`
}

// ITicketTypeService bilet türü önbelleği ve global tekillik bayrağı için arayüz.
type ITicketTypeService interface {
	// LoadValidationContext global tekillik bayrağını ve aktif bilet türü
	// önbelleğini döner. Bilet listesi Redis'te TTL ile saklanır; bayrak her
	// çağrıda taze okunur.
	LoadValidationContext(ctx context.Context) (bool, map[string]TicketCacheEntry, error)
	InvalidateCache()
}

// TicketTypeService ITicketTypeService arayüzünü uygular.
type TicketTypeService struct {
	repo     repositories.ITicketTypeRepository
	redis    *redis.Client
	cacheTTL time.Duration
}

// NewTicketTypeService yeni bir TicketTypeService örneği oluşturur.
func NewTicketTypeService(repo repositories.ITicketTypeRepository, redisClient *redis.Client) ITicketTypeService {
	return &TicketTypeService{
		repo:     repo,
		redis:    redisClient,
		cacheTTL: configs.TicketCacheTTL(),
	}
}

func (s *TicketTypeService) LoadValidationContext(ctx context.Context) (bool, map[string]TicketCacheEntry, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return false, nil, err
	}

	cache, err := s.loadTicketCache(ctx)
	if err != nil {
		return false, nil, err
	}
	return settings.EnforceGlobalUnique, cache, nil
}

// loadTicketCache aktif bilet türlerini önce Redis'ten, yoksa DB'den yükler.
// Önbellek hataları yalnızca loglanır; kaynak her zaman DB'dir.
func (s *TicketTypeService) loadTicketCache(ctx context.Context) (map[string]TicketCacheEntry, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ticketCacheKey).Result(); err == nil && cached != "" {
			var entries []TicketCacheEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return indexEntries(entries), nil
			}
		}
	}

	types, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]TicketCacheEntry, 0, len(types))
	for _, t := range types {
		entries = append(entries, TicketCacheEntry{
			ID:                 t.ID,
			Name:               t.Name,
			EnforceUniqueEmail: t.EnforceUniqueEmail,
		})
	}

	if s.redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.redis.Set(ticketCacheKey, payload, s.cacheTTL).Err(); err != nil {
				configslog.Log.Warn("Bilet türü önbelleği yazılamadı", zap.Error(err))
			}
		}
	}
	return indexEntries(entries), nil
}

func (s *TicketTypeService) InvalidateCache() {
	if s.redis != nil {
		_ = s.redis.Del(ticketCacheKey).Err()
	}
}

func indexEntries(entries []TicketCacheEntry) map[string]TicketCacheEntry {
	index := make(map[string]TicketCacheEntry, len(entries))
	for _, entry := range entries {
		index[strings.ToLower(entry.Name)] = entry
	}
	return index
}

var _ ITicketTypeService = (*TicketTypeService)(nil)
