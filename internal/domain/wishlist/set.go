package wishlist

import (
	"time"
)

// Set is a snapshot of the server-owned membership set: which product ids
// the current user has wishlisted. It is owned by the cache and read by
// everyone else through Contains.
type Set struct {
	ids       map[string]struct{}
	fetchedAt time.Time
	ttl       time.Duration
}

func NewSet(ids []string, fetchedAt time.Time, ttl time.Duration) *Set {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return &Set{
		ids:       set,
		fetchedAt: fetchedAt,
		ttl:       ttl,
	}
}

func (s *Set) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

func (s *Set) Fresh(now time.Time) bool {
	if s == nil {
		return false
	}
	return now.Sub(s.fetchedAt) < s.ttl
}

func (s *Set) Add(id string) {
	s.ids[id] = struct{}{}
}

func (s *Set) Remove(id string) {
	delete(s.ids, id)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns a copy; the internal map never leaves the cache.
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}
