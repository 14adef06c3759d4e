package identity

import (
	"context"
	"sync"
)

// MemoryStore keeps identities in process memory. Entries are stored encoded so
// reads go through the same validation as the Redis store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) For(clientID string) Cache {
	return &memoryCache{store: s, clientID: clientID}
}

// Put stores raw bytes for a client, bypassing validation.
func (s *MemoryStore) Put(clientID string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[clientID] = raw
}

// Len returns the number of clients with a cached entry.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

type memoryCache struct {
	store    *MemoryStore
	clientID string
}

func (c *memoryCache) Read(ctx context.Context) (*Identity, error) {
	c.store.mu.RLock()
	raw, ok := c.store.data[c.clientID]
	c.store.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	id := decode(raw)
	if id == nil {
		c.store.mu.Lock()
		delete(c.store.data, c.clientID)
		c.store.mu.Unlock()
		return nil, nil
	}
	return id, nil
}

func (c *memoryCache) Write(ctx context.Context, identity *Identity) error {
	raw, err := encode(identity)
	if err != nil {
		return err
	}
	c.store.mu.Lock()
	c.store.data[c.clientID] = raw
	c.store.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(ctx context.Context) error {
	c.store.mu.Lock()
	delete(c.store.data, c.clientID)
	c.store.mu.Unlock()
	return nil
}
