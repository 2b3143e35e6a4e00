// Package cooldown implements the cooldown store: a per-stream-scope
// set of suppression windows, with one background sweeper goroutine per
// registered stream pruning expired entries on a fixed cadence. Writes
// are serialized per stream behind that stream's own mutex.
package cooldown

import (
	"sync"
	"time"

	"github.com/icad-go/tonedetect/internal/types"
)

// SweepInterval is the sweeper's polling cadence.
const SweepInterval = time.Second

// Store holds one suppression set per stream scope, each swept by its own
// background worker. The zero value is not usable; use NewStore.
type Store struct {
	mu      sync.Mutex
	streams map[string]*stream

	// now is substitutable in tests; defaults to time.Now.
	now func() time.Time
}

type stream struct {
	mu      sync.Mutex
	entries map[string]types.CooldownEntry // keyed by profile_id
	stop    chan struct{}
	stopped chan struct{}
}

// NewStore returns an empty cooldown store.
func NewStore() *Store {
	return &Store{
		streams: make(map[string]*stream),
		now:     time.Now,
	}
}

// ensure returns the stream's state, registering it (and starting its
// sweeper) on first use.
func (s *Store) ensure(streamScope string) *stream {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.streams[streamScope]
	if ok {
		return st
	}

	st = &stream{
		entries: make(map[string]types.CooldownEntry),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	s.streams[streamScope] = st

	go s.sweep(st)

	return st
}

func (s *Store) sweep(st *stream) {
	defer close(st.stopped)

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-st.stop:
			return
		case <-ticker.C:
			st.prune(s.now())
		}
	}
}

func (st *stream) prune(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for id, entry := range st.entries {
		if entry.Expired(now) {
			delete(st.entries, id)
		}
	}
}

// Add inserts or refreshes a suppression entry for profileID within
// streamScope. Called by the match engine immediately after a non-suppressed
// match fires.
func (s *Store) Add(streamScope string, entry types.CooldownEntry) {
	st := s.ensure(streamScope)

	st.mu.Lock()
	defer st.mu.Unlock()

	st.entries[entry.ProfileID] = entry
}

// Lookup returns the active cooldown entry for profileID within
// streamScope, if one exists and has not expired as of now.
func (s *Store) Lookup(streamScope, profileID string, now time.Time) (types.CooldownEntry, bool) {
	st := s.ensure(streamScope)

	st.mu.Lock()
	defer st.mu.Unlock()

	entry, ok := st.entries[profileID]
	if !ok || entry.Expired(now) {
		return types.CooldownEntry{}, false
	}

	return entry, true
}

// Snapshot returns a point-in-time copy of every live entry for streamScope.
func (s *Store) Snapshot(streamScope string) []types.CooldownEntry {
	st := s.ensure(streamScope)

	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]types.CooldownEntry, 0, len(st.entries))
	for _, entry := range st.entries {
		out = append(out, entry)
	}

	return out
}

// Prune removes expired entries from streamScope immediately, independent
// of the sweeper's own cadence.
func (s *Store) Prune(streamScope string, now time.Time) {
	s.ensure(streamScope).prune(now)
}

// RemoveStream stops streamScope's sweeper and discards its entries. The
// call blocks until the worker has observed the stop signal, bounding
// shutdown to at most one sweep interval.
func (s *Store) RemoveStream(streamScope string) {
	s.mu.Lock()
	st, ok := s.streams[streamScope]
	if ok {
		delete(s.streams, streamScope)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	close(st.stop)
	<-st.stopped
}

// Close stops every registered stream's sweeper. Safe to call once at
// shutdown; the store must not be used afterward.
func (s *Store) Close() {
	s.mu.Lock()
	streams := make([]string, 0, len(s.streams))

	for name := range s.streams {
		streams = append(streams, name)
	}
	s.mu.Unlock()

	for _, name := range streams {
		s.RemoveStream(name)
	}
}
