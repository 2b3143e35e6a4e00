// Package splitjoin implements the split-join buffer:
// when a clip produces no tone detections, it is held under its
// talkgroup_id and prepended to the next clip for that talkgroup (with
// 2s of silence stitched between them) instead of being discarded,
// giving a tone sequence split across two recordings a second chance.
// One mutex guards the whole buffer, which holds one buffered clip per
// key.
//
// Talkgroup churn on a busy system can hold far more distinct IDs than
// will ever actually round-trip through Take, so entries are kept in a
// bounded LRU rather than a plain map: a feed with many one-off
// talkgroups can't grow this buffer without limit. Expired entries are
// not swept; the TTL is only checked when Take is called.
package splitjoin

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// maxBufferedTalkgroups bounds how many distinct talkgroup_ids may have a
// pending entry at once; beyond this the least-recently-touched entry is
// evicted to make room; a missed split-join is a rare downgrade, not a
// functional failure.
const maxBufferedTalkgroups = 4096

// Entry is one buffered, tone-less clip awaiting a follow-up.
type Entry struct {
	Samples    []float32
	SampleRate int
	BufferedAt time.Time
}

// Buffer holds at most one pending Entry per talkgroup ID.
type Buffer struct {
	mu    sync.Mutex
	cache *lru.Cache[int64, Entry]
	ttl   time.Duration
}

// New returns an empty split-join buffer with the given eviction TTL.
func New(ttl time.Duration) *Buffer {
	cache, err := lru.New[int64, Entry](maxBufferedTalkgroups)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// maxBufferedTalkgroups never is.
		panic(err)
	}

	return &Buffer{cache: cache, ttl: ttl}
}

// Take removes and returns the buffered entry for talkgroupID, if one
// exists and has not exceeded the TTL.
func (b *Buffer) Take(talkgroupID int64, now time.Time) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.cache.Get(talkgroupID)
	if !ok {
		return Entry{}, false
	}

	b.cache.Remove(talkgroupID)

	if b.ttl > 0 && now.Sub(entry.BufferedAt) > b.ttl {
		return Entry{}, false
	}

	return entry, true
}

// Put buffers samples under talkgroupID, replacing any prior entry.
func (b *Buffer) Put(talkgroupID int64, samples []float32, sampleRate int, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cache.Add(talkgroupID, Entry{Samples: samples, SampleRate: sampleRate, BufferedAt: now})
}

// Clear drops any buffered entry for talkgroupID without returning it.
func (b *Buffer) Clear(talkgroupID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cache.Remove(talkgroupID)
}

// Join stitches prior audio, 2s of silence at sampleRate, and next
// together.
func Join(prior []float32, sampleRate int, next []float32) []float32 {
	const silenceSeconds = 2

	silence := make([]float32, silenceSeconds*sampleRate)

	out := make([]float32, 0, len(prior)+len(silence)+len(next))
	out = append(out, prior...)
	out = append(out, silence...)
	out = append(out, next...)

	return out
}
