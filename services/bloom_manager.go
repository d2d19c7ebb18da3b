package services

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Ad alanı başına filtre kapasitesi. Aşılırsa yanlış pozitif oranı artar,
// doğruluk bozulmaz: her "görülmüş olabilir" cevabı Redis ile kesinleştirilir.
const (
	bloomEstimatedItems    = 1_000_000
	bloomFalsePositiveRate = 0.001
)

// BloomManager ad alanı başına olasılıksal üyelik filtresi tutar.
// Paylaşılan global durum yerine enjekte edilen bir örnek olarak kullanılır;
// tüm erişim tek kilitle korunur (kritik bölge O(1) bit işlemidir).
type BloomManager struct {
	mu      sync.Mutex
	filters map[string]*bloom.BloomFilter
}

// NewBloomManager yeni bir BloomManager örneği oluşturur.
func NewBloomManager() *BloomManager {
	return &BloomManager{filters: make(map[string]*bloom.BloomFilter)}
}

func (m *BloomManager) filter(namespace string) *bloom.BloomFilter {
	if f, ok := m.filters[namespace]; ok {
		return f
	}
	f := bloom.NewWithEstimates(bloomEstimatedItems, bloomFalsePositiveRate)
	m.filters[namespace] = f
	return f
}

// Test anahtarın daha önce görülmüş OLABİLECEĞİNİ söyler.
// false: kesinlikle yeni; true: görülmüş olabilir (yanlış pozitif mümkün).
func (m *BloomManager) Test(namespace, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(namespace).TestString(key)
}

// Add anahtarı filtreye ekler.
func (m *BloomManager) Add(namespace, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter(namespace).AddString(key)
}

// Clear ad alanının filtresini atar.
func (m *BloomManager) Clear(namespace string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.filters, namespace)
}
