package services

import (
	"fmt"
	"strings"
	"time"

	"davetli.app/models"

	"github.com/go-redis/redis"
)

// IDeduplicationService eşzamanlı yüklemeler arasında (e-posta, bilet türü)
// çakışmalarını tespit eden iki katmanlı filtre arayüzü.
type IDeduplicationService interface {
	// IsDuplicate anahtar daha önce sahiplenilmişse true döner; değilse
	// anahtarı sahiplenir ve false döner. Redis'e ulaşılamazsa hata döner —
	// altyapı hatası asla "mükerrer değil" sayılmaz.
	IsDuplicate(userID uint, email, ticketType, scope string) (bool, error)
	// Clear ad alanının filtresini ve Redis kilitlerini temizler.
	Clear() error
}

// DeduplicationService bloom ön kontrolü + Redis SETNX kesin kilidini birleştirir.
type DeduplicationService struct {
	client    *redis.Client
	blooms    *BloomManager
	namespace string
	ttl       time.Duration
}

// NewDeduplicationService yeni bir DeduplicationService örneği oluşturur.
// Aynı misafir/bilet ad alanına yazan tüm yüklemeler aynı namespace'i paylaşmalıdır.
func NewDeduplicationService(client *redis.Client, blooms *BloomManager, namespace string, ttl time.Duration) IDeduplicationService {
	return &DeduplicationService{client: client, blooms: blooms, namespace: namespace, ttl: ttl}
}

// ResolveDedupScope bir bilet türü için geçerli tekillik kapsamını belirler.
// Global bayrak açıksa bilet seviyesindeki ayarı ezer; kapalıysa biletin
// enforce_unique_email bayrağına bakılır; ikisi de yoksa tekillik uygulanmaz.
func ResolveDedupScope(ticketName string, cache map[string]TicketCacheEntry, globalUnique bool) string {
	if globalUnique {
		return models.ScopeGlobal
	}
	entry, ok := cache[strings.ToLower(strings.TrimSpace(ticketName))]
	if ok && entry.EnforceUniqueEmail {
		return models.ScopeTicket
	}
	return models.ScopeNone
}

// makeDedupKey kapsamın sahiplenme anahtarını üretir. Kapsam "none" ise boş döner.
func makeDedupKey(namespace string, userID uint, email, ticketType, scope string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	switch scope {
	case models.ScopeGlobal:
		return fmt.Sprintf("dedup:%s:%d:global:%s", namespace, userID, email)
	case models.ScopeTicket:
		ticket := strings.ToLower(strings.TrimSpace(ticketType))
		if ticket == "" {
			return ""
		}
		return fmt.Sprintf("dedup:%s:%d:ticket:%s:%s", namespace, userID, ticket, email)
	default:
		return ""
	}
}

func (s *DeduplicationService) IsDuplicate(userID uint, email, ticketType, scope string) (bool, error) {
	key := makeDedupKey(s.namespace, userID, email, ticketType, scope)
	if key == "" {
		return false, nil
	}

	// 1. katman: filtre "görülmüş olabilir" diyorsa bu yanlış pozitif
	// olabilir; karar kesin katmana bırakılır.
	if s.blooms.Test(s.namespace, key) {
		claimed, err := s.claim(key)
		if err != nil {
			return false, err
		}
		return !claimed, nil
	}

	// Kesinlikle yeni: sahiplen ve sonraki ön kontroller için filtreyi besle.
	// Sahiplenme yine SETNX ile yapılır; başka bir süreç aynı anahtarı bizden
	// önce kilitlemiş olabilir ve bunu yalnızca kesin katman görebilir.
	claimed, err := s.claim(key)
	if err != nil {
		return false, err
	}
	s.blooms.Add(s.namespace, key)
	return !claimed, nil
}

// claim anahtarı SETNX + TTL ile sahiplenmeyi dener. TTL, yarım kalan bir
// sahiplenmenin sonsuza dek kilitli kalmasını önler.
func (s *DeduplicationService) claim(key string) (bool, error) {
	claimed, err := s.client.SetNX(key, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDedupUnavailable, err)
	}
	return claimed, nil
}

func (s *DeduplicationService) Clear() error {
	s.blooms.Clear(s.namespace)
	pattern := fmt.Sprintf("dedup:%s:*", s.namespace)
	keys, err := s.client.Keys(pattern).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDedupUnavailable, err)
	}
	if len(keys) > 0 {
		if err := s.client.Del(keys...).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrDedupUnavailable, err)
		}
	}
	return nil
}

var _ IDeduplicationService = (*DeduplicationService)(nil)
