package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"smartrouting/internal/domain"
)

// In-memory implementations of the store ports, used in tests and for local
// runs without a database.
type MemoryAddressStore struct {
	mu   sync.RWMutex
	byID map[int]domain.Address
}

func NewMemoryAddressStore(addresses ...domain.Address) *MemoryAddressStore {
	s := &MemoryAddressStore{byID: make(map[int]domain.Address, len(addresses))}
	for _, a := range addresses {
		s.byID[a.ID] = a
	}
	return s
}

func (s *MemoryAddressStore) Put(a domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[a.ID] = a
}

func (s *MemoryAddressStore) Find(_ context.Context, ids []int) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Address, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryAddressStore) List(_ context.Context, offset, limit int, search string) ([]domain.Address, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(search)
	all := make([]domain.Address, 0, len(s.byID))
	for _, a := range s.byID {
		if needle != "" && !strings.Contains(strings.ToLower(a.Name), needle) {
			continue
		}
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return []domain.Address{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// MemoryDistanceCache keeps distances per canonical pair under a mutex, so
// concurrent upserts are atomic the same way the SQL constraint makes them.
type MemoryDistanceCache struct {
	mu      sync.RWMutex
	entries map[[2]int]float64
}

func NewMemoryDistanceCache() *MemoryDistanceCache {
	return &MemoryDistanceCache{entries: make(map[[2]int]float64)}
}

func (c *MemoryDistanceCache) Get(_ context.Context, ids []int) ([]domain.DistanceCacheEntry, error) {
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []domain.DistanceCacheEntry{}
	for pair, d := range c.entries {
		if _, ok := want[pair[0]]; !ok {
			continue
		}
		if _, ok := want[pair[1]]; !ok {
			continue
		}
		v := d
		out = append(out, domain.DistanceCacheEntry{Loc1: pair[0], Loc2: pair[1], Distance: &v})
	}
	return out, nil
}

func (c *MemoryDistanceCache) Upsert(_ context.Context, loc1, loc2 int, meters float64) error {
	l1, l2 := domain.CanonicalPair(loc1, loc2)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[[2]int{l1, l2}] = meters
	return nil
}

// Len reports the number of cached pairs. Test helper.
func (c *MemoryDistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
