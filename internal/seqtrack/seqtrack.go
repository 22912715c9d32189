// Package seqtrack detects gaps in per-tag reply sequence numbers.
//
// The firmware stamps some replies with an incrementing counter. A jump of
// more than one between consecutive values of the same tag means datagrams
// were lost on the link. Gaps are diagnostics only and never fail a command.
package seqtrack

import (
	"sync"

	"github.com/fxlink/go-fxcli/fxwire"
)

// Tracker keeps the last sequence number seen per tag.
type Tracker struct {
	mu     sync.Mutex
	last   [fxwire.NumTags]uint64
	seen   [fxwire.NumTags]bool
	gaps   uint64
	lost   uint64
	resets uint64
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{}
}

// Observe records seq for tag and returns the number of sequence values
// skipped since the previous observation of the same tag.
//
// The first value of a tag only sets the baseline. A value that does not
// advance (firmware restart or reordering) re-baselines and counts as a
// reset, not a gap.
func (t *Tracker) Observe(tag fxwire.Tag, seq uint64) uint64 {
	idx := tag.Index()
	if idx < 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	last, seen := t.last[idx], t.seen[idx]
	t.last[idx], t.seen[idx] = seq, true

	switch {
	case !seen:
		return 0
	case seq <= last:
		t.resets++
		return 0
	case seq == last+1:
		return 0
	}

	missing := seq - last - 1
	t.gaps++
	t.lost += missing

	return missing
}

// Last returns the last sequence number observed for tag.
func (t *Tracker) Last(tag fxwire.Tag) (uint64, bool) {
	idx := tag.Index()
	if idx < 0 {
		return 0, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.last[idx], t.seen[idx]
}

// Gaps returns how many discontinuities were detected.
func (t *Tracker) Gaps() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.gaps
}

// Lost returns the total number of skipped sequence values.
func (t *Tracker) Lost() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.lost
}

// Resets returns how many times a tag's sequence went backwards or repeated.
func (t *Tracker) Resets() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.resets
}

// Reset forgets every baseline and counter.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = [fxwire.NumTags]uint64{}
	t.seen = [fxwire.NumTags]bool{}
	t.gaps, t.lost, t.resets = 0, 0, 0
}
