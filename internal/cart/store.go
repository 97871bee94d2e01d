package cart

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Store persists serialized carts under a session key.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte)
	Delete(key string)
	// Update replaces the entry for key with the result of fn, holding the
	// key exclusively while fn runs. An error from fn leaves the entry as is.
	Update(key string, fn func(data []byte, ok bool) ([]byte, error)) error
}

// Marshal serializes the cart.
func (c *Cart) Marshal() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a serialized cart and re-applies the stock bound.
func Unmarshal(data []byte) (*Cart, error) {
	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.Clamp()
	return c, nil
}

// Load reads the cart for key. A missing entry yields an empty cart; a
// corrupt one yields an empty cart together with the decode error.
func Load(store Store, key string) (*Cart, error) {
	data, ok := store.Get(key)
	if !ok {
		return New(), nil
	}
	c, err := Unmarshal(data)
	if err != nil {
		return New(), err
	}
	return c, nil
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	carts map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.carts[key]
	return data, ok
}

func (s *MemoryStore) Set(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[key] = data
}

func (s *MemoryStore) Update(key string, fn func(data []byte, ok bool) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.carts[key]
	next, err := fn(data, ok)
	if err != nil {
		return err
	}
	s.carts[key] = next
	return nil
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
}
