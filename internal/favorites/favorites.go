// Package favorites tracks the product ids the user has marked, persisted in a
// single localstore slot as a JSON array.
package favorites

import (
	"encoding/json"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/showroom/internal/localstore"
)

// Key is the storage slot holding the favorites array.
const Key = "favorites"

// Store is the process-wide favorites set. Every view reads and toggles
// through the same Store.
type Store struct {
	mu     sync.RWMutex
	kv     localstore.KV
	logger *zap.Logger
	ids    []int64
}

// Load reads the persisted set from kv. Missing, unreadable or malformed data
// yields an empty set; the problem is logged, never returned.
func Load(kv localstore.KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{kv: kv, logger: logger}
	if kv == nil {
		return s
	}

	raw, ok, err := kv.Get(Key)
	if err != nil {
		logger.Warn("favorites unreadable, starting empty", zap.Error(err))
		return s
	}
	if !ok {
		return s
	}
	s.ids = decode(raw, logger)
	return s
}

func decode(raw string, logger *zap.Logger) []int64 {
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logger.Warn("favorites malformed, discarding", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil
	}
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// Has reports whether id is marked favorite.
func (s *Store) Has(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

// IDs returns the favorite ids in the order they were added.
func (s *Store) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Toggle removes id when present and appends it otherwise, then persists the
// full set. It returns the new membership of id. A failed write is logged and
// the in-memory set stays authoritative for the session.
func (s *Store) Toggle(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	member := true
	if idx := slices.Index(s.ids, id); idx >= 0 {
		s.ids = slices.Delete(s.ids, idx, idx+1)
		member = false
	} else {
		s.ids = append(s.ids, id)
	}
	s.persist()
	return member
}

func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	ids := s.ids
	if ids == nil {
		ids = []int64{}
	}
	bytes, err := json.Marshal(ids)
	if err != nil {
		s.logger.Warn("encode favorites", zap.Error(err))
		return
	}
	if err := s.kv.Set(Key, string(bytes)); err != nil {
		s.logger.Warn("persist favorites", zap.Error(err), zap.Int("count", len(ids)))
	}
}
