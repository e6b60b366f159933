package repo

import (
	"sort"
	"sync"

	"github.com/yourname/pin_relay/internal/models"
)

// MemoryStore хранит пины только в оперативной памяти; используется стабом Pinata.
type MemoryStore struct {
	mu   sync.RWMutex
	pins map[string]models.Pin
}

// NewMemoryStore создаёт пустое in-memory хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pins: map[string]models.Pin{}}
}

// Get возвращает пин по CID или models.ErrNotFound.
func (s *MemoryStore) Get(cid string) (models.Pin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pins[cid]
	if !ok {
		return models.Pin{}, models.ErrNotFound
	}
	return p.Clone(), nil
}

// Save записывает пин; existed сообщает, был ли такой CID уже закреплён.
func (s *MemoryStore) Save(p models.Pin) (existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed = s.pins[p.CID]
	if !existed {
		s.pins[p.CID] = p.Clone()
	}
	return existed
}

// Delete снимает пин.
func (s *MemoryStore) Delete(cid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pins[cid]; !ok {
		return models.ErrNotFound
	}
	delete(s.pins, cid)
	return nil
}

// List возвращает все пины, отсортированные по CID.
func (s *MemoryStore) List() []models.Pin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Pin, 0, len(s.pins))
	for _, p := range s.pins {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CID < out[j].CID })
	return out
}
