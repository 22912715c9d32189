// Package slot implements a single-item mailbox that always keeps the most
// recent value.
//
// A Slot has exactly one writer (the receive engine) and any number of
// waiters. Writing never blocks and replaces an unread value; there is no
// queue, so a consumer can never be answered by a value older than the
// freshest one.
package slot

import (
	"sync"
	"sync/atomic"
	"time"
)

// Slot holds the latest unread value of type T.
//
// The zero value is not usable; create slots with New.
type Slot[T any] struct {
	mu       sync.Mutex
	writeSeq uint64
	readSeq  uint64 // readSeq <= writeSeq
	value    T
	changed  chan struct{} // closed and replaced on every write

	overwritten atomic.Uint64
}

// New creates an empty slot.
func New[T any]() *Slot[T] {
	return &Slot[T]{changed: make(chan struct{})}
}

// Write stores v, replacing any unread value, and wakes every waiter.
func (s *Slot[T]) Write(v T) {
	s.mu.Lock()
	if s.writeSeq != s.readSeq {
		s.overwritten.Add(1)
	}
	s.value = v
	s.writeSeq++
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// WaitAndTake returns the unread value, waiting up to timeout for one to be
// written. A timeout <= 0 polls without blocking.
//
// On timeout it returns the zero value and false and leaves the slot as it
// was.
func (s *Slot[T]) WaitAndTake(timeout time.Duration) (T, bool) {
	if v, ok, _ := s.tryTake(); ok || timeout <= 0 {
		return v, ok
	}

	timer := getTimer(timeout)
	defer putTimer(timer)

	for {
		v, ok, changed := s.tryTake()
		if ok {
			return v, true
		}

		select {
		case <-changed:
		case <-timer.C:
			// a write may have raced with the timer
			v, ok, _ := s.tryTake()
			return v, ok
		}
	}
}

// Clear discards any unread value so that a following WaitAndTake only
// observes writes made after Clear returns.
func (s *Slot[T]) Clear() {
	var zero T

	s.mu.Lock()
	s.readSeq = s.writeSeq
	s.value = zero
	s.mu.Unlock()
}

// Pending reports whether an unread value is present.
func (s *Slot[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeSeq != s.readSeq
}

// Generation returns the number of writes made so far.
func (s *Slot[T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeSeq
}

// Overwritten returns how many unread values were replaced by newer writes.
func (s *Slot[T]) Overwritten() uint64 {
	return s.overwritten.Load()
}

func (s *Slot[T]) tryTake() (T, bool, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeSeq == s.readSeq {
		var zero T
		return zero, false, s.changed
	}

	v := s.value
	var zero T
	s.value = zero
	s.readSeq = s.writeSeq

	return v, true, nil
}
