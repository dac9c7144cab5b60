package search

import (
	"context"
	"sync"

	"github.com/couchcryptid/weather-lookup/internal/domain"
)

// Searcher is the part of Engine a Session drives.
type Searcher interface {
	Search(ctx context.Context, query string) []domain.Candidate
	SearchGazetteer(ctx context.Context, query string) []domain.Candidate
}

// Mode selects hybrid or gazetteer-only search.
type Mode string

const (
	ModeHybrid    Mode = "hybrid"
	ModeGazetteer Mode = "gazetteer"
)

// Session serializes one client's typeahead queries. Every Search call takes
// a new generation and cancels the request it supersedes; a result whose
// generation is no longer current is reported stale so callers never let an
// old response overwrite a newer one.
type Session struct {
	searcher Searcher

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewSession creates a session over searcher.
func NewSession(searcher Searcher) *Session {
	return &Session{searcher: searcher}
}

// Result is the outcome of one session search.
type Result struct {
	Generation uint64
	Candidates []domain.Candidate
	Stale      bool
}

// Search runs query in mode. If another Search starts before this one
// finishes, this one is cancelled and returns Stale with no candidates.
func (s *Session) Search(ctx context.Context, query string, mode Mode) Result {
	ctx, gen := s.begin(ctx)

	var candidates []domain.Candidate
	if mode == ModeGazetteer {
		candidates = s.searcher.SearchGazetteer(ctx, query)
	} else {
		candidates = s.searcher.Search(ctx, query)
	}

	if !s.finish(gen) {
		return Result{Generation: gen, Candidates: []domain.Candidate{}, Stale: true}
	}
	return Result{Generation: gen, Candidates: candidates}
}

// Generation returns the most recently issued generation.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Close cancels any in-flight search.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

func (s *Session) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	s.cancel = cancel
	return ctx, s.generation
}

// finish reports whether gen is still current and releases its context.
func (s *Session) finish(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}
