package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sells-group/site-intel/internal/model"
)

// Session is the state of one crawl. It replaces process-wide caches so
// concurrent crawls of different sites never see each other's data.
type Session struct {
	ID string

	mu        sync.Mutex
	fetched   map[string]bool
	mentioned map[string]bool
	events    []model.DiagnosticEvent
	designs   map[string]model.DesignAssets
	group     singleflight.Group
	now       func() time.Time
}

// NewSession starts an empty session tagged with a correlation ID.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		fetched:   make(map[string]bool),
		mentioned: make(map[string]bool),
		designs:   make(map[string]model.DesignAssets),
		now:       time.Now,
	}
}

func urlKey(u string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), "/")
}

// MarkFetched adds u to the fetched set and reports whether it was new.
func (s *Session) MarkFetched(u string) bool {
	k := urlKey(u)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetched[k] {
		return false
	}
	s.fetched[k] = true
	return true
}

// Fetched reports whether u was already fetched in this crawl.
func (s *Session) Fetched(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetched[urlKey(u)]
}

// Mention records that u has appeared somewhere in the crawl output and
// reports whether it was unseen, neither fetched nor mentioned before.
func (s *Session) Mention(u string) bool {
	k := urlKey(u)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetched[k] || s.mentioned[k] {
		return false
	}
	s.mentioned[k] = true
	return true
}

// resetURLs clears the URL sets before a fresh crawl tier.
func (s *Session) resetURLs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.fetched)
	clear(s.mentioned)
}

// Record appends a diagnostic event.
func (s *Session) Record(step, url, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, model.DiagnosticEvent{
		At:     s.now().UTC(),
		Step:   step,
		URL:    url,
		Detail: detail,
	})
}

// Diagnostics returns a copy of the events recorded so far.
func (s *Session) Diagnostics() []model.DiagnosticEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DiagnosticEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Design returns the cached design assets for company, computing them with
// fn at most once per session even under concurrent callers.
func (s *Session) Design(ctx context.Context, company string, fn func(ctx context.Context) model.DesignAssets) model.DesignAssets {
	s.mu.Lock()
	if d, ok := s.designs[company]; ok {
		s.mu.Unlock()
		return d
	}
	s.mu.Unlock()

	v, _, _ := s.group.Do(company, func() (any, error) {
		d := fn(ctx)
		s.mu.Lock()
		s.designs[company] = d
		s.mu.Unlock()
		return d, nil
	})
	return v.(model.DesignAssets)
}
