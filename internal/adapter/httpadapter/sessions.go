package httpadapter

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/couchcryptid/weather-lookup/internal/observability"
	"github.com/couchcryptid/weather-lookup/internal/search"
)

// sessionTTL is how long an idle typeahead session is kept.
const sessionTTL = 30 * time.Minute

// sessions maps client session ids to search sessions. Idle sessions expire;
// expired ones are swept whenever a new session is created.
type sessions struct {
	mu      sync.Mutex
	cache   *gocache.Cache
	newFn   func() *search.Session
	metrics *observability.Metrics
}

func newSessions(newFn func() *search.Session, ttl time.Duration, metrics *observability.Metrics) *sessions {
	c := gocache.New(ttl, 0)
	c.OnEvicted(func(_ string, v any) {
		v.(*search.Session).Close()
		metrics.ActiveSessions.Dec()
	})
	return &sessions{cache: c, newFn: newFn, metrics: metrics}
}

// get returns the session for id, creating it if needed, and refreshes its
// expiry.
func (s *sessions) get(id string) *search.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(id); ok {
		sess := v.(*search.Session)
		s.cache.SetDefault(id, sess)
		return sess
	}

	s.cache.DeleteExpired()
	sess := s.newFn()
	s.cache.SetDefault(id, sess)
	s.metrics.ActiveSessions.Inc()
	return sess
}

func (s *sessions) count() int {
	return s.cache.ItemCount()
}

func (s *sessions) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.DeleteExpired()
	for id := range s.cache.Items() {
		s.cache.Delete(id)
	}
}
