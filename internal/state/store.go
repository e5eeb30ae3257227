// Package state holds the most recently fetched page of learnings for
// the UI, guarded for concurrent access from fetch commands.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/mohdsalimkhatib/Gravity/internal/api"
	"github.com/mohdsalimkhatib/Gravity/internal/learning"
)

// Snapshot represents the latest page available to the UI.
type Snapshot struct {
	Page                api.Page
	HasPage             bool
	Search              string // search term the page was fetched with
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the backend has been unreachable for
// multiple fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored page. When err is non-nil the previous
// page is kept and the failure is recorded for visibility.
func (s *Store) Update(page *api.Page, search string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if page != nil {
		s.snapshot.Page = clonePage(*page)
		s.snapshot.HasPage = true
	} else {
		s.snapshot.HasPage = false
	}
	s.snapshot.Search = search
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Page = clonePage(s.snapshot.Page)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func clonePage(page api.Page) api.Page {
	dup := page
	if len(page.Learnings) > 0 {
		dup.Learnings = append([]learning.Learning(nil), page.Learnings...)
	}
	return dup
}
