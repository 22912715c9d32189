// Package rtsched requests low-latency scheduling for the calling OS thread.
//
// Every request is best effort: without the needed privileges the kernel
// refuses and the thread keeps the default scheduling policy. Callers must
// lock the goroutine to its thread (runtime.LockOSThread) before calling
// Apply, otherwise the settings land on an arbitrary runtime thread.
package rtsched

import "errors"

// ErrUnsupported is returned on platforms without the requested facility.
var ErrUnsupported = errors.New("rtsched: not supported on this platform")

// Settings describes the scheduling request. The zero value requests nothing.
type Settings struct {
	// Priority is the SCHED_FIFO priority (1..99); 0 keeps the default policy.
	Priority int
	// CPUs pins the thread to the listed CPUs; empty keeps the current mask.
	CPUs []int
	// LockMemory locks current and future pages of the process in RAM.
	LockMemory bool
}

// Enabled reports whether s requests anything.
func (s Settings) Enabled() bool {
	return s.Priority > 0 || len(s.CPUs) > 0 || s.LockMemory
}

// Result reports the outcome of each request; a nil error means granted.
type Result struct {
	PriorityErr error
	AffinityErr error
	MemLockErr  error
}

// KeyValues flattens r for structured logging.
func (r Result) KeyValues() []any {
	return []any{"priority_err", r.PriorityErr, "affinity_err", r.AffinityErr, "memlock_err", r.MemLockErr}
}

// Apply asks the kernel for s on the current thread. It never fails; the
// outcome of each request is reported in the Result.
func Apply(s Settings) Result {
	var r Result
	if s.Priority > 0 {
		r.PriorityErr = setPriority(s.Priority)
	}
	if len(s.CPUs) > 0 {
		r.AffinityErr = setAffinity(s.CPUs)
	}
	if s.LockMemory {
		r.MemLockErr = lockMemory()
	}

	return r
}
