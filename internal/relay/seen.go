package relay

import (
	"container/list"
	"sync"
)

// seenSet remembers the most recent event ids, evicting the oldest once
// capacity is reached.
type seenSet struct {
	mu    sync.Mutex
	ids   map[string]*list.Element
	order *list.List
	max   int
}

func newSeenSet(max int) *seenSet {
	if max <= 0 {
		max = 1
	}
	return &seenSet{ids: make(map[string]*list.Element), order: list.New(), max: max}
}

// checkAndMark reports whether id was already seen, marking it if not.
func (s *seenSet) checkAndMark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return true
	}
	if s.order.Len() >= s.max {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.ids, oldest.Value.(string))
	}
	s.ids[id] = s.order.PushBack(id)
	return false
}
