package server

import (
	"sync"
	"time"

	"github.com/chazu/parley/artifact"
	"github.com/google/uuid"
)

// result is a compiled artifact kept for follow-up requests.
type result struct {
	artifact *artifact.Artifact
	created  time.Time
	lastUsed time.Time
}

// ResultStore maps opaque compile ids to artifacts.
type ResultStore struct {
	mu      sync.Mutex
	results map[string]*result
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]*result)}
}

// Create registers an artifact and returns its id.
func (s *ResultStore) Create(a *artifact.Artifact) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.results[id] = &result{artifact: a, created: now, lastUsed: now}
	return id
}

// Lookup returns the artifact for id.
func (s *ResultStore) Lookup(id string) (*artifact.Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.results[id]
	if !ok {
		return nil, false
	}
	r.lastUsed = time.Now()
	return r.artifact, true
}

// Release forgets id.
func (s *ResultStore) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, id)
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Sweep removes results that haven't been accessed within the TTL.
func (s *ResultStore) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	removed := 0
	for id, r := range s.results {
		if r.lastUsed.Before(cutoff) {
			delete(s.results, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs periodic TTL sweeps in the background.
// Returns a stop function.
func (s *ResultStore) StartSweeper(interval, ttl time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(ttl); n > 0 {
					log.Debug("swept compile results", "removed", n)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	return func() { close(done) }
}
