package node

import (
	"fmt"
	"sort"
	"sync"
)

// Factory создаёт операцию узла.
type Factory func() Op

// Meta — описательные метаданные типа узла для фронтендов.
type Meta struct {
	// Category — категория узла (input, utility, video, storage, api).
	Category string `json:"category"`

	// Description — человекочитаемое описание операции.
	Description string `json:"description"`
}

// Registry — реестр типов узлов.
//
// Заполняется явными вызовами Register при старте процесса и передаётся
// по ссылке в Executor-фронтенды и Serializer. Потокобезопасен.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

type registryEntry struct {
	factory Factory
	meta    Meta
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
	}
}

// Register регистрирует тип узла.
// Если тип уже существует, он будет перезаписан.
func (r *Registry) Register(typ string, factory Factory, meta Meta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[typ] = registryEntry{factory: factory, meta: meta}
}

// NewNode создаёт узел зарегистрированного типа.
// Возвращает ErrUnknownNodeType, если тип не найден.
func (r *Registry) NewNode(typ, id string, config map[string]any) (*Node, error) {
	r.mu.RLock()
	entry, exists := r.entries[typ]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNodeType, typ)
	}

	return New(typ, id, config, entry.factory()), nil
}

// Has проверяет, зарегистрирован ли тип узла.
func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entries[typ]
	return exists
}

// Types возвращает отсортированный список зарегистрированных типов.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Meta возвращает метаданные типа узла.
func (r *Registry) Meta(typ string) (Meta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.entries[typ]
	return entry.meta, exists
}

// Count возвращает количество зарегистрированных типов.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
