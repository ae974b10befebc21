package engine

import "sync"

// Cache — кэш результатов выполнения узлов.
//
// Ключ — хэш входов узла (node.InputHash). За этим интерфейсом внешний
// коллаборатор может добавить долговременное хранилище; движок поставляет
// только in-memory реализацию.
type Cache interface {
	// Get возвращает закэшированные выходы по ключу.
	Get(key string) (map[string]any, bool)

	// Put сохраняет выходы по ключу.
	Put(key string, outputs map[string]any)
}

// MemoryCache — потокобезопасный in-memory кэш результатов.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]any
}

// NewMemoryCache создаёт пустой MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]map[string]any),
	}
}

// Get возвращает закэшированные выходы по ключу.
func (c *MemoryCache) Get(key string) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	outputs, ok := c.entries[key]
	return outputs, ok
}

// Put сохраняет выходы по ключу.
func (c *MemoryCache) Put(key string, outputs map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = outputs
}

// Len возвращает количество записей в кэше.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
